package config

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultID is used when no default connection is configured.
const DefaultID = "default"

var ErrUnknownConfiguration = errors.New("unknown database configuration")

// Configurations is a registry of named database configurations.
// Ids are case-insensitive.
type Configurations interface {
	// Has reports whether a configuration with the given id exists.
	Has(id string) bool
	// Get returns the configuration for id without any fallback.
	Get(id string) (*Database, error)
	// Resolve returns the configuration for id, or the default one when id
	// is empty or unknown.
	Resolve(id string) (*Database, error)
	DefaultID() string
	IDs() []string
	// FallbackToDefault reports whether unknown ids should fall back to
	// the default configuration.
	FallbackToDefault() bool
}

func lookup(dbs map[string]*Database, id string) (*Database, error) {
	d, ok := dbs[normalizeID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfiguration, id)
	}
	return d, nil
}

func resolve(dbs map[string]*Database, defaultID, id string) (*Database, error) {
	if d, ok := dbs[normalizeID(id)]; ok {
		return d, nil
	}
	d, err := lookup(dbs, defaultID)
	if err != nil {
		return nil, fmt.Errorf("no configuration for %q and no default: %w", id, err)
	}
	return d, nil
}

func sortedIDs(dbs map[string]*Database) []string {
	ids := make([]string, 0, len(dbs))
	for id := range dbs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
