package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/editor"
	"github.com/eduardofuncao/pamdb/internal/run"
	"github.com/eduardofuncao/pamdb/internal/styles"
)

var saveCmd = &cli.Command{
	Name:      "save",
	Aliases:   []string{"add"},
	Usage:     "Save a named query on a connection",
	ArgsUsage: "<name> [sql]",
	Flags:     []cli.Flag{connFlag},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return fmt.Errorf("usage: pamdb save [-c id] <name> [sql]")
		}
		return withEnv(cctx, func(e *env) error {
			conn, err := e.conn(cctx)
			if err != nil {
				return err
			}
			name := cctx.Args().First()

			sql := strings.Join(cctx.Args().Tail(), " ")
			if sql == "" {
				header := editor.Header(fmt.Sprintf("new query %s on %s (%s)", name, conn.ID(), conn.DBType()))
				if sql, err = editor.Edit(header, ""); err != nil {
					return err
				}
				if sql == "" {
					fmt.Println(styles.Faint.Render("Empty query, nothing saved"))
					return nil
				}
			}

			q, err := conn.Config().SaveQuery(config.Query{Name: name, SQL: sql})
			if err != nil {
				return err
			}
			if err := e.file.Save(); err != nil {
				return fmt.Errorf("could not save configuration file: %w", err)
			}
			fmt.Println(styles.Success.Render("✓ Saved:"), styles.Title.Render(fmt.Sprintf("%d/%s", q.ID, q.Name)))
			return nil
		})
	},
}

var queriesCmd = &cli.Command{
	Name:      "queries",
	Usage:     "List the queries saved on a connection",
	ArgsUsage: "[search]",
	Flags: []cli.Flag{
		connFlag,
		&cli.BoolFlag{Name: "oneline", Aliases: []string{"o"}},
	},
	Action: func(cctx *cli.Context) error {
		return withEnv(cctx, func(e *env) error {
			conn, err := e.conn(cctx)
			if err != nil {
				return err
			}
			search := strings.ToLower(cctx.Args().First())

			var shown int
			for _, q := range conn.Config().SortedQueries() {
				if search != "" && !strings.Contains(strings.ToLower(q.Name), search) && !strings.Contains(strings.ToLower(q.SQL), search) {
					continue
				}
				shown++
				if cctx.Bool("oneline") {
					fmt.Printf("%s %s\n", styles.Faint.Render(fmt.Sprint(q.ID)), styles.Title.Render(q.Name))
					continue
				}
				run.PrintQuery(os.Stdout, q.ID, q.Name, q.SQL)
				fmt.Println()
			}
			if shown == 0 {
				fmt.Println(styles.Faint.Render("No queries saved"))
			}
			return nil
		})
	},
}
