// Package connections keeps one lazily created db.Connection per named
// database configuration.
package connections

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	logging "github.com/ipfs/go-log/v2"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/db"
)

var log = logging.Logger("connections")

var ErrUnknownConnection = errors.New("unknown connection")

// Factory creates the connection for a configuration.
type Factory func(cfg *config.Database) (*db.Connection, error)

type Option func(*Registry)

// WithFallback controls whether unknown ids resolve to the default
// connection. It overrides the setting of the configurations.
func WithFallback(enabled bool) Option {
	return func(r *Registry) { r.fallback = enabled }
}

func WithFactory(f Factory) Option {
	return func(r *Registry) { r.factory = f }
}

// Registry hands out connections by configuration id. Each configuration
// gets exactly one connection, created on first request.
type Registry struct {
	cfgs     config.Configurations
	fallback bool
	factory  Factory

	mu    sync.Mutex
	conns map[string]*db.Connection
}

func New(cfgs config.Configurations, opts ...Option) *Registry {
	r := &Registry{
		cfgs:     cfgs,
		fallback: cfgs.FallbackToDefault(),
		factory:  db.NewConnection,
		conns:    make(map[string]*db.Connection),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the connection for id. An empty id means the default
// connection, and so does an unknown id when fallback is enabled.
func (r *Registry) Get(id string) (*db.Connection, error) {
	cfg, err := r.resolve(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.conns[cfg.ID]; ok {
		return c, nil
	}
	c, err := r.factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection %s: %w", cfg.ID, err)
	}
	r.conns[cfg.ID] = c
	log.Debugw("created connection", "conn", cfg.ID, "driver", cfg.Driver)
	return c, nil
}

func (r *Registry) resolve(id string) (*config.Database, error) {
	switch {
	case id == "" || r.cfgs.Has(id):
	case r.fallback:
		log.Warnw("unknown connection, using default", "requested", id, "default", r.cfgs.DefaultID())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, id)
	}

	cfg, err := r.cfgs.Resolve(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownConnection, err)
	}
	return cfg, nil
}

// Default returns the default connection.
func (r *Registry) Default() (*db.Connection, error) {
	return r.Get("")
}

// Has reports whether a configuration named id exists, ignoring fallback.
func (r *Registry) Has(id string) bool {
	return r.cfgs.Has(id)
}

// Loaded lists the ids of the connections created so far.
func (r *Registry) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove closes and forgets the connection for id. The next Get creates
// a new one.
func (r *Registry) Remove(id string) error {
	id = strings.ToLower(strings.TrimSpace(id))

	r.mu.Lock()
	c, ok := r.conns[id]
	delete(r.conns, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Close()
}

// Close closes every connection created so far.
func (r *Registry) Close() error {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]*db.Connection)
	r.mu.Unlock()

	var errs []error
	for id, c := range conns {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	log.Debugw("closed connections", "count", len(conns))
	return errors.Join(errs...)
}
