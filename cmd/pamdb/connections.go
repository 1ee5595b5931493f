package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/eduardofuncao/pamdb/internal/styles"
)

var connectionsCmd = &cli.Command{
	Name:    "connections",
	Aliases: []string{"ls"},
	Usage:   "List configured connections",
	Action: func(cctx *cli.Context) error {
		return withEnv(cctx, func(e *env) error {
			ids := e.file.IDs()
			if len(ids) == 0 {
				fmt.Println(styles.Faint.Render("No connections configured"))
				return nil
			}
			for _, id := range ids {
				d, err := e.file.Get(id)
				if err != nil {
					return err
				}
				marker := styles.Faint.Render("◆")
				if id == e.file.DefaultID() {
					marker = styles.Success.Render("●")
				}
				fmt.Printf("%s %s %s\n", marker, styles.Title.Render(id), styles.Faint.Render(fmt.Sprintf("(%s, %d queries)", d.Driver, len(d.Queries))))
			}
			return nil
		})
	},
}

var pingCmd = &cli.Command{
	Name:      "ping",
	Usage:     "Check that a connection can be opened",
	ArgsUsage: "[id]",
	Action: func(cctx *cli.Context) error {
		return withEnv(cctx, func(e *env) error {
			id := cctx.Args().First()
			if id != "" && !e.reg.Has(id) {
				return fmt.Errorf("connection '%s' does not exist", id)
			}
			conn, err := e.reg.Get(id)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := conn.Ping(cctx.Context); err != nil {
				return err
			}
			fmt.Println(styles.Success.Render("✓ Reachable:"), styles.Title.Render(fmt.Sprintf("%s/%s", conn.DBType(), conn.ID())), styles.Faint.Render(fmt.Sprintf("%.2fs", time.Since(start).Seconds())))
			return nil
		})
	},
}

var useCmd = &cli.Command{
	Name:      "use",
	Aliases:   []string{"switch"},
	Usage:     "Make a connection the default",
	ArgsUsage: "<id>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return fmt.Errorf("usage: pamdb use <id>")
		}
		return withEnv(cctx, func(e *env) error {
			id := cctx.Args().First()
			if err := e.file.SetDefault(id); err != nil {
				return err
			}
			if err := e.file.Save(); err != nil {
				return fmt.Errorf("could not save configuration file: %w", err)
			}
			d, _ := e.file.Get(id)
			fmt.Println(styles.Success.Render("⇄ Switched to:"), styles.Title.Render(fmt.Sprintf("%s/%s", d.Driver, d.ID)))
			return nil
		})
	},
}
