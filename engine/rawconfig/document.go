package rawconfig

import (
	"math"
	"slices"
	"strings"
)

// Document is a parsed configuration file. Data holds the untyped mapping;
// the declared order of every mapping's keys is kept alongside it.
type Document struct {
	Path string
	Data map[string]any
	// order is keyed by JSON pointer, "" being the root mapping.
	order map[string][]string
}

// Keys returns the keys of the mapping at pointer (e.g. "/functions") in
// declared order. Keys without a recorded position (YAML merge keys) follow,
// sorted.
func (d *Document) Keys(pointer string) []string {
	if d == nil {
		return nil
	}
	m, ok := d.lookup(pointer).(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for _, k := range d.order[pointer] {
		if _, exists := m[k]; exists {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// Version returns the declared integer version. ok is false when the field
// is missing or is not a number.
func (d *Document) Version() (version int, ok bool) {
	if d == nil {
		return 0, false
	}
	return numberValue(d.Data["version"])
}

// IsIntegralVersion reports whether a numeric version has no fractional part.
func (d *Document) IsIntegralVersion() bool {
	if d == nil {
		return false
	}
	switch v := d.Data["version"].(type) {
	case int:
		return true
	case float64:
		return v == math.Trunc(v)
	default:
		return false
	}
}

func (d *Document) lookup(pointer string) any {
	var node any = d.Data
	if pointer == "" {
		return node
	}
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[unescapePointer(segment)]
	}
	return node
}

func numberValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func escapePointer(key string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
}

func unescapePointer(segment string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(segment)
}
