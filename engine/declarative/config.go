package declarative

import (
	"fmt"
	"reflect"

	"github.com/compozy/deployconf/engine/core"
	"github.com/go-viper/mapstructure/v2"
)

// Config is the typed form of a version 4 project configuration.
type Config struct {
	Version              int                         `mapstructure:"version"`
	Regions              []string                    `mapstructure:"regions"`
	Commands             []string                    `mapstructure:"commands"`
	EnvironmentVariables map[string]string           `mapstructure:"environmentVariables"`
	Functions            map[string]FunctionSettings `mapstructure:"functions"`
	Assets               *AssetsConfig               `mapstructure:"assets"`
	Routes               []RouteConfig               `mapstructure:"routes"`
	Services             []ServiceConfig             `mapstructure:"services"`
}

// FunctionSettings is one function pattern definition. A nil field is
// unset and leaves earlier matches untouched when merged.
type FunctionSettings struct {
	Runtime              *string           `mapstructure:"runtime"`
	Memory               *int              `mapstructure:"memory"`
	MaxDuration          *int              `mapstructure:"maxDuration"`
	Schedule             *string           `mapstructure:"schedule"`
	ExcludeFiles         []string          `mapstructure:"excludeFiles"`
	EnvironmentVariables map[string]string `mapstructure:"environmentVariables"`
	Symlinks             map[string]string `mapstructure:"symlinks"`
}

type AssetsConfig struct {
	Directory     string                        `mapstructure:"directory"`
	PrefixToStrip *string                       `mapstructure:"prefixToStrip"`
	DynamicRoutes bool                          `mapstructure:"dynamicRoutes"`
	PopulateCache bool                          `mapstructure:"populateCache"`
	Overrides     map[string]core.AssetOverride `mapstructure:"overrides"`
}

type RouteConfig struct {
	Path        string             `mapstructure:"path"`
	Destination string             `mapstructure:"destination"`
	Redirect    bool               `mapstructure:"redirect"`
	Methods     []string           `mapstructure:"methods"`
	Headers     map[string]string  `mapstructure:"headers"`
	Status      int                `mapstructure:"status"`
	Has         []core.Requirement `mapstructure:"has"`
	Missing     []core.Requirement `mapstructure:"missing"`
}

type ServiceConfig struct {
	Type    core.ServiceType  `mapstructure:"type"`
	Name    string            `mapstructure:"name"`
	Version string            `mapstructure:"version"`
	URL     string            `mapstructure:"url"`
	Options map[string]string `mapstructure:"options"`
}

// Decode converts validated raw configuration data into a Config.
func Decode(data map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		TagName:    "mapstructure",
		DecodeHook: stringToListHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("failed to decode v4 configuration: %w", err)
	}
	return &cfg, nil
}

// stringToListHook accepts a single string where a list of strings is expected.
func stringToListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	return []string{data.(string)}, nil
}

// mergeSettings folds parts left to right. For every field the last
// non-nil value wins.
func mergeSettings(parts ...FunctionSettings) FunctionSettings {
	var out FunctionSettings
	for _, part := range parts {
		if part.Runtime != nil {
			out.Runtime = part.Runtime
		}
		if part.Memory != nil {
			out.Memory = part.Memory
		}
		if part.MaxDuration != nil {
			out.MaxDuration = part.MaxDuration
		}
		if part.Schedule != nil {
			out.Schedule = part.Schedule
		}
		if part.ExcludeFiles != nil {
			out.ExcludeFiles = part.ExcludeFiles
		}
		if part.EnvironmentVariables != nil {
			out.EnvironmentVariables = part.EnvironmentVariables
		}
		if part.Symlinks != nil {
			out.Symlinks = part.Symlinks
		}
	}
	return out
}
