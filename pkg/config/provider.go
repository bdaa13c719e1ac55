package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceType identifies where a settings value came from.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// Source supplies a nested settings map.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// flagPaths maps CLI flag names to settings paths.
var flagPaths = map[string]string{
	"log-level":         "runtime.log_level",
	"log-json":          "runtime.log_json",
	"log-source":        "runtime.log_source",
	"default-memory":    "normalizer.default_memory",
	"default-runtime":   "normalizer.default_runtime",
	"output-dir":        "normalizer.output_dir",
	"discovery-workers": "normalizer.discovery_workers",
}

type flagSource map[string]any

// NewCLIProvider turns changed CLI flags into a settings source. Flags
// without a settings path are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return flagSource(flags)
}

func (f flagSource) Load() (map[string]any, error) {
	out := make(map[string]any)
	for name, value := range f {
		settingsPath, ok := flagPaths[name]
		if !ok {
			continue
		}
		if err := setPath(out, settingsPath, value); err != nil {
			return nil, fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return out, nil
}

func (f flagSource) Type() SourceType {
	return SourceCLI
}

// setPath stores value under a dotted path, creating intermediate maps.
func setPath(m map[string]any, dotted string, value any) error {
	parts := strings.Split(dotted, ".")
	node := m
	for i, part := range parts[:len(parts)-1] {
		child, exists := node[part]
		if !exists {
			child = make(map[string]any)
			node[part] = child
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("settings key %q is not a mapping", strings.Join(parts[:i+1], "."))
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
	return nil
}

type fileSource string

// NewYAMLProvider reads settings from a YAML file. A missing file yields no
// values.
func NewYAMLProvider(path string) Source {
	return fileSource(path)
}

func (f fileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(string(f))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", string(f), err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", string(f), err)
	}
	return withoutNulls(values), nil
}

func (f fileSource) Type() SourceType {
	return SourceYAML
}

// withoutNulls drops null leaves and mappings left empty by doing so, so a
// blank key never overrides a default.
func withoutNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch value := v.(type) {
		case nil:
		case map[string]any:
			if nested := withoutNulls(value); len(nested) > 0 {
				out[k] = nested
			}
		default:
			out[k] = value
		}
	}
	return out
}
