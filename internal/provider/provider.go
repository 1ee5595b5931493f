// Package provider wires configurations and connections into an fx
// application.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/db"
	"github.com/eduardofuncao/pamdb/internal/db/connections"
)

// Module provides the configurations read from the file at path, the
// connection registry and the default connection. The file is also
// available as *config.File so callers can save changes back.
func Module(path string) fx.Option {
	return fx.Module("pamdb",
		fx.Provide(
			ConfigFile(path),
			func(f *config.File) config.Configurations { return f },
		),
		core(),
	)
}

// Memory provides cfgs instead of a configuration file.
func Memory(cfgs config.Configurations) fx.Option {
	return fx.Module("pamdb",
		fx.Provide(func() config.Configurations { return cfgs }),
		core(),
	)
}

func core() fx.Option {
	return fx.Provide(
		Registry,
		DefaultConnection,
	)
}

func ConfigFile(path string) func() (*config.File, error) {
	return func() (*config.File, error) {
		return config.Load(path)
	}
}

// Registry creates the connection registry and closes every connection
// it handed out when the application stops.
func Registry(lc fx.Lifecycle, cfgs config.Configurations) *connections.Registry {
	r := connections.New(cfgs)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return r.Close()
		},
	})
	return r
}

func DefaultConnection(r *connections.Registry) (*db.Connection, error) {
	return r.Default()
}

func nameTag(name string) string {
	return fmt.Sprintf(`name:"%s"`, name)
}

// Connection provides the connection for name as a *db.Connection tagged
// `name:"<name>"`. It is resolved through the registry, so fallback and
// sharing apply.
func Connection(name string) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(r *connections.Registry) (*db.Connection, error) {
				return r.Get(name)
			},
			fx.ResultTags(nameTag(name)),
		),
	)
}

// Configuration provides the configuration for name as a *config.Database
// tagged `name:"<name>"`, falling back to the default when allowed. An
// empty name always means the default.
func Configuration(name string) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(cfgs config.Configurations) (*config.Database, error) {
				if name == "" {
					return cfgs.Get(cfgs.DefaultID())
				}
				if cfgs.FallbackToDefault() {
					return cfgs.Resolve(name)
				}
				return cfgs.Get(name)
			},
			fx.ResultTags(nameTag(name)),
		),
	)
}
