package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var log = logging.Logger("config")

// DefaultPath returns $PAMDB_CONFIG, or the per-user config file.
func DefaultPath() string {
	if p := os.Getenv("PAMDB_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.ExpandEnv("$HOME/.config/pamdb"), "config.yaml")
}

// File is a configuration file holding named database configurations.
// It is read through viper, so yaml, ini, properties, toml and json all
// work; Save always writes yaml.
type File struct {
	DefaultConnection string               `mapstructure:"default_connection" yaml:"default_connection,omitempty"`
	Fallback          *bool                `mapstructure:"fallback_to_default" yaml:"fallback_to_default,omitempty"`
	Connections       map[string]*Database `mapstructure:"connections" yaml:"connections"`

	path string
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	// ini keys outside any section land under "default".
	if sub := v.Sub("default"); sub != nil {
		for _, key := range sub.AllKeys() {
			if !v.IsSet(key) {
				v.Set(key, sub.Get(key))
			}
		}
	}

	f := &File{path: path}
	if err := v.Unmarshal(f); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".yaml", ".yml", ".json":
		f.restoreKeyCase(path)
	}
	if err := f.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	log.Debugw("loaded configuration", "path", path, "connections", len(f.Connections), "default", f.DefaultID())
	return f, nil
}

// restoreKeyCase re-reads a yaml or json file to recover the spelling of
// option keys and query names, which viper folds to lower case.
func (f *File) restoreKeyCase(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var raw struct {
		Connections map[string]struct {
			Options map[string]interface{} `yaml:"options"`
			Queries map[string]Query       `yaml:"queries"`
		} `yaml:"connections"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Debugw("option keys stay lower-cased", "path", path, "err", err)
		return
	}

	for id, rc := range raw.Connections {
		d := f.Connections[strings.ToLower(id)]
		if d == nil {
			continue
		}
		if len(rc.Options) > 0 {
			d.Options = make(map[string]string, len(rc.Options))
			for k, v := range rc.Options {
				if v == nil {
					d.Options[k] = ""
					continue
				}
				d.Options[k] = fmt.Sprint(v)
			}
		}
		if len(rc.Queries) > 0 {
			d.Queries = make(map[string]Query, len(rc.Queries))
			for name, q := range rc.Queries {
				if q.Name == "" {
					q.Name = name
				}
				d.Queries[name] = q
			}
		}
	}
}

// Load is LoadFile, except a missing file yields an empty configuration
// bound to path.
func Load(path string) (*File, error) {
	f, err := LoadFile(path)
	if err == nil {
		return f, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		log.Infow("config file not found, starting blank", "path", path)
		return &File{Connections: make(map[string]*Database), path: path}, nil
	}
	return nil, err
}

func (f *File) normalize() error {
	f.DefaultConnection = normalizeID(f.DefaultConnection)

	dbs := make(map[string]*Database, len(f.Connections))
	for id, d := range f.Connections {
		if d == nil {
			return fmt.Errorf("database %q: empty configuration", id)
		}
		if err := d.Normalize(id); err != nil {
			return err
		}
		dbs[d.ID] = d
	}
	f.Connections = dbs
	return nil
}

// Path is where the file was read from and where Save writes to.
func (f *File) Path() string { return f.path }

// Save writes the configuration back to its path as yaml.
func (f *File) Save() error {
	if f.path == "" {
		return fmt.Errorf("config file has no path")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

// Add registers d under d.ID, replacing any previous record.
func (f *File) Add(d *Database) error {
	if err := d.Normalize(d.ID); err != nil {
		return err
	}
	if f.Connections == nil {
		f.Connections = make(map[string]*Database)
	}
	f.Connections[d.ID] = d
	return nil
}

// SetDefault makes id the default connection. The id must exist.
func (f *File) SetDefault(id string) error {
	if !f.Has(id) {
		return fmt.Errorf("%w: %s", ErrUnknownConfiguration, id)
	}
	f.DefaultConnection = normalizeID(id)
	return nil
}

func (f *File) Has(id string) bool {
	_, ok := f.Connections[normalizeID(id)]
	return ok
}

func (f *File) Get(id string) (*Database, error) {
	return lookup(f.Connections, id)
}

func (f *File) Resolve(id string) (*Database, error) {
	return resolve(f.Connections, f.DefaultID(), id)
}

func (f *File) DefaultID() string {
	if f.DefaultConnection == "" {
		return DefaultID
	}
	return f.DefaultConnection
}

func (f *File) IDs() []string {
	return sortedIDs(f.Connections)
}

func (f *File) FallbackToDefault() bool {
	return f.Fallback == nil || *f.Fallback
}
