package config

import "context"

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	// ConfigCtxKey is the context key used to store the *Config instance
	ConfigCtxKey ContextKey = "deployconf_config"
)

// ContextWithConfig stores the settings in the context
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext returns the settings attached to ctx, falling back to Default.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return Default()
}
