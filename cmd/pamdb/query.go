package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/eduardofuncao/pamdb/internal/db"
	"github.com/eduardofuncao/pamdb/internal/editor"
	"github.com/eduardofuncao/pamdb/internal/run"
	"github.com/eduardofuncao/pamdb/internal/table"
)

var paramFlag = &cli.StringSliceFlag{
	Name:    "param",
	Aliases: []string{"p"},
	Usage:   "value for a :name parameter, as name=value",
}

var queryCmd = &cli.Command{
	Name:      "query",
	Aliases:   []string{"q"},
	Usage:     "Run sql and print the result",
	ArgsUsage: "[sql]",
	Flags: []cli.Flag{
		connFlag,
		paramFlag,
		&cli.BoolFlag{Name: "one", Usage: "print only the first row"},
		&cli.BoolFlag{Name: "value", Usage: "print only the first column of the first row"},
		&cli.IntFlag{Name: "column", Value: -1, Usage: "print every value of the column with this index"},
		&cli.BoolFlag{Name: "copy", Usage: "copy the result to the clipboard"},
		&cli.IntFlag{Name: "width", Value: table.DefaultColumnWidth, Usage: "maximum column width"},
	},
	Action: func(cctx *cli.Context) error {
		return withEnv(cctx, func(e *env) error {
			conn, err := e.conn(cctx)
			if err != nil {
				return err
			}
			sql, err := sqlFromArgs(cctx, conn)
			if err != nil || sql == "" {
				return err
			}
			return execute(cctx, conn, sql, cctx.StringSlice(paramFlag.Name))
		})
	},
}

var execCmd = &cli.Command{
	Name:      "exec",
	Usage:     "Run a statement that returns no rows",
	ArgsUsage: "<sql>",
	Flags:     []cli.Flag{connFlag, paramFlag},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return fmt.Errorf("usage: pamdb exec [-c id] <sql>")
		}
		return withEnv(cctx, func(e *env) error {
			conn, err := e.conn(cctx)
			if err != nil {
				return err
			}
			sql := strings.Join(cctx.Args().Slice(), " ")
			values, err := parseValues(sql, cctx.StringSlice(paramFlag.Name))
			if err != nil {
				return err
			}
			res, err := conn.ExecNamed(cctx.Context, sql, values)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				fmt.Printf("%d rows affected\n", n)
			}
			return nil
		})
	},
}

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run a saved query, or inline sql",
	ArgsUsage: "<name|id|sql> [values...]",
	Flags: []cli.Flag{
		connFlag,
		&cli.BoolFlag{Name: "copy", Usage: "copy the result to the clipboard"},
		&cli.IntFlag{Name: "width", Value: table.DefaultColumnWidth, Usage: "maximum column width"},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return fmt.Errorf("usage: pamdb run [-c id] <name|id|sql> [values...]")
		}
		return withEnv(cctx, func(e *env) error {
			conn, err := e.conn(cctx)
			if err != nil {
				return err
			}
			resolved, err := run.Resolve(conn, cctx.Args().First())
			if err != nil {
				return err
			}
			if resolved.Saved {
				run.PrintQuery(os.Stdout, resolved.Query.ID, resolved.Query.Name, resolved.Query.SQL)
			}
			return execute(cctx, conn, resolved.Query.SQL, cctx.Args().Tail())
		})
	},
}

// sqlFromArgs joins the arguments into one statement, or asks for one in
// the editor when there are none.
func sqlFromArgs(cctx *cli.Context, conn *db.Connection) (string, error) {
	if cctx.NArg() > 0 {
		return strings.Join(cctx.Args().Slice(), " "), nil
	}
	header := editor.Header(fmt.Sprintf("query on %s (%s)", conn.ID(), conn.DBType()))
	return editor.Edit(header, "")
}

func execute(cctx *cli.Context, conn *db.Connection, sql string, args []string) error {
	values, err := parseValues(sql, args)
	if err != nil {
		return err
	}

	opts := run.Options{
		Copy:        cctx.Bool("copy"),
		ColumnWidth: cctx.Int("width"),
	}
	switch {
	case cctx.Bool("value"):
		opts.Mode = run.ModeValue
	case cctx.Bool("one"):
		opts.Mode = run.ModeOne
	case cctx.IsSet("column"):
		opts.Mode = run.ModeColumn
		opts.Column = cctx.Int("column")
	}
	if interactive() {
		opts.Spinner = os.Stderr
	}

	return run.Execute(cctx.Context, conn, sql, values, os.Stdout, opts)
}
