package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes the environment variables read by the loader.
const EnvPrefix = "DEPLOYCONF_"

// Loader resolves settings from defaults, sources and the environment.
type Loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
	sources   map[string]SourceType
}

// NewLoader creates a settings loader with validation support.
func NewLoader() *Loader {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("config: failed to register validators: %v", err))
	}
	return &Loader{
		koanf:     koanf.New("."),
		validator: v,
		sources:   make(map[string]SourceType),
	}
}

// Load applies defaults, then sources in order, then DEPLOYCONF_* environment
// variables. The last applied value wins.
func (l *Loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	l.koanf = koanf.New(".")
	l.sources = make(map[string]SourceType)
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	l.track(SourceDefault)
	for _, source := range sources {
		if source == nil {
			continue
		}
		data, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load from source %s: %w", source.Type(), err)
		}
		if len(data) == 0 {
			continue
		}
		if err := l.koanf.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply source %s: %w", source.Type(), err)
		}
		l.trackKeys(data, "", source.Type())
	}
	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}
	return l.unmarshalAndValidate()
}

// GetSource returns the source type for a specific configuration key.
func (l *Loader) GetSource(key string) SourceType {
	if source, ok := l.sources[key]; ok {
		return source
	}
	return SourceDefault
}

// transformEnvKey converts environment variable names to koanf paths.
// For example: DEPLOYCONF_NORMALIZER_DEFAULT_MEMORY -> normalizer.default_memory
func transformEnvKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}

func (l *Loader) loadEnvironment() error {
	var keys []string
	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			path := transformEnvKey(key)
			if path != "" {
				keys = append(keys, path)
			}
			return path, value
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	for _, key := range keys {
		l.sources[key] = SourceEnv
	}
	return nil
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := l.koanf.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.validator.Struct(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (l *Loader) track(source SourceType) {
	for _, key := range l.koanf.Keys() {
		l.sources[key] = source
	}
}

func (l *Loader) trackKeys(data map[string]any, prefix string, source SourceType) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			l.trackKeys(nested, key, source)
			continue
		}
		l.sources[key] = source
	}
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
