package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/db"
	"github.com/eduardofuncao/pamdb/internal/db/connections"
	"github.com/eduardofuncao/pamdb/internal/params"
	"github.com/eduardofuncao/pamdb/internal/provider"
)

// env is what a command works with. Connections are closed when the
// command returns.
type env struct {
	file *config.File
	reg  *connections.Registry
}

var connFlag = &cli.StringFlag{
	Name:    "connection",
	Aliases: []string{"c"},
	Usage:   "connection id, the default connection when empty",
}

func withEnv(cctx *cli.Context, fn func(e *env) error) error {
	var e env
	app := fx.New(
		fx.NopLogger,
		provider.Module(cctx.String("config")),
		fx.Populate(&e.file, &e.reg),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cctx.Context
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warnw("closing connections", "error", err)
		}
	}()

	return fn(&e)
}

// conn returns the connection selected with -c.
func (e *env) conn(cctx *cli.Context) (*db.Connection, error) {
	if len(e.file.IDs()) == 0 {
		return nil, fmt.Errorf("no connections configured in %s", e.file.Path())
	}
	return e.reg.Get(cctx.String(connFlag.Name))
}

// parseValues reads name=value pairs, mapping bare values onto the
// parameters of sql in order.
func parseValues(sql string, args []string) (map[string]any, error) {
	given := make(map[string]string)
	var positional []string
	for _, a := range args {
		if name, value, ok := strings.Cut(a, "="); ok {
			given[name] = value
			continue
		}
		positional = append(positional, a)
	}
	for name, v := range params.Positional(sql, positional) {
		if _, ok := given[name]; !ok {
			given[name] = v
		}
	}

	defaults := params.Defaults(sql)
	if err := params.Validate(given, defaults); err != nil {
		return nil, err
	}
	resolved := params.Resolve(defaults, given)
	if missing := params.Missing(params.Required(sql), resolved); len(missing) > 0 {
		return nil, fmt.Errorf("missing values for parameters: %s", strings.Join(missing, ", "))
	}
	return params.ToAny(resolved), nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
