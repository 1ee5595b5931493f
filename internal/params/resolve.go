package params

import (
	"fmt"
	"sort"
)

// Resolve overlays given values onto the defaults. Values for unknown
// parameters are dropped.
func Resolve(defaults, given map[string]string) map[string]string {
	out := make(map[string]string, len(defaults))
	for name, def := range defaults {
		out[name] = def
	}
	for name, v := range given {
		if _, ok := out[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Missing lists, sorted, the parameters with no default and no value.
func Missing(defaults, values map[string]string) []string {
	var missing []string
	for name, def := range defaults {
		if def != "" {
			continue
		}
		if v, ok := values[name]; !ok || v == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Validate rejects values for parameters the sql does not declare.
func Validate(given, defaults map[string]string) error {
	for name := range given {
		if _, ok := defaults[name]; !ok {
			return fmt.Errorf("unknown parameter: %s", name)
		}
	}
	return nil
}

// Positional maps positional values onto the parameters of sql in order
// of appearance. Extra values are ignored.
func Positional(sql string, positionals []string) map[string]string {
	out := make(map[string]string)
	for i, p := range Extract(sql) {
		if i >= len(positionals) {
			break
		}
		out[p.Name] = positionals[i]
	}
	return out
}

// ToAny converts string values for use with Args.
func ToAny(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
