package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/styles"
)

var log = logging.Logger("pamdb")

func main() {
	app := &cli.App{
		Name:  "pamdb",
		Usage: "Run queries against named database connections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"PAMDB_CONFIG"},
				Value:   config.DefaultPath(),
				Usage:   "configuration file (yaml, ini, properties, toml or json)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
			},
		},
		Before: func(cctx *cli.Context) error {
			return logging.SetLogLevel("*", cctx.String("log-level"))
		},
		Commands: []*cli.Command{
			connectionsCmd,
			pingCmd,
			useCmd,
			queryCmd,
			execCmd,
			runCmd,
			saveCmd,
			queriesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Debugf("%+v", err)
		fmt.Fprintln(os.Stderr, styles.Error.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
