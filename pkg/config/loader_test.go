package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
}

func (m *mockSource) Load() (map[string]any, error) {
	return m.data, nil
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewLoader().Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 128, cfg.Normalizer.DefaultMemory)
		assert.Equal(t, 30, cfg.Normalizer.DefaultMaxDuration)
		assert.Equal(t, "node-20", cfg.Normalizer.DefaultRuntime)
		assert.Equal(t, ".vercel/output", cfg.Normalizer.OutputDir)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		loader := NewLoader()
		yamlSource := &mockSource{
			data: map[string]any{
				"normalizer": map[string]any{
					"default_memory":    512,
					"discovery_workers": 8,
				},
			},
			sourceType: SourceYAML,
		}
		cliSource := NewCLIProvider(map[string]any{"default-memory": 1024, "unknown-flag": true})

		cfg, err := loader.Load(context.Background(), yamlSource, cliSource)

		require.NoError(t, err)
		assert.Equal(t, 1024, cfg.Normalizer.DefaultMemory)
		assert.Equal(t, 8, cfg.Normalizer.DiscoveryWorkers)
		assert.Equal(t, SourceCLI, loader.GetSource("normalizer.default_memory"))
		assert.Equal(t, SourceYAML, loader.GetSource("normalizer.discovery_workers"))
		assert.Equal(t, SourceDefault, loader.GetSource("normalizer.output_dir"))
	})

	t.Run("Should let environment variables override sources", func(t *testing.T) {
		t.Setenv("DEPLOYCONF_NORMALIZER_DEFAULT_MAX_DURATION", "90")
		t.Setenv("DEPLOYCONF_RUNTIME_LOG_LEVEL", "debug")
		loader := NewLoader()

		cfg, err := loader.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 90, cfg.Normalizer.DefaultMaxDuration)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, SourceEnv, loader.GetSource("normalizer.default_max_duration"))
	})

	t.Run("Should reject an unknown default runtime", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"normalizer": map[string]any{"default_runtime": "python-3.9"}},
			sourceType: SourceYAML,
		}
		_, err := NewLoader().Load(context.Background(), source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("Should reject an invalid log level", func(t *testing.T) {
		source := NewCLIProvider(map[string]any{"log-level": "verbose"})
		_, err := NewLoader().Load(context.Background(), source)
		require.Error(t, err)
	})
}

func TestYAMLProvider_Load(t *testing.T) {
	t.Run("Should read nested settings and drop nil values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		content := "normalizer:\n  output_dir: build/output\n  default_runtime:\nruntime:\n  log_json: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		data, err := NewYAMLProvider(path).Load()

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"normalizer": map[string]any{"output_dir": "build/output"},
			"runtime":    map[string]any{"log_json": true},
		}, data)
	})

	t.Run("Should return an empty map when the file does not exist", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map prefixed variables to dotted paths", func(t *testing.T) {
		assert.Equal(t, "normalizer.default_memory", transformEnvKey("DEPLOYCONF_NORMALIZER_DEFAULT_MEMORY"))
		assert.Equal(t, "runtime.log_json", transformEnvKey("DEPLOYCONF_RUNTIME__LOG_JSON"))
		assert.Equal(t, "", transformEnvKey("DEPLOYCONF_RUNTIME"))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return stored settings", func(t *testing.T) {
		cfg := Default()
		cfg.Normalizer.DefaultMemory = 2048
		ctx := ContextWithConfig(context.Background(), cfg)
		assert.Equal(t, 2048, FromContext(ctx).Normalizer.DefaultMemory)
	})

	t.Run("Should fall back to defaults", func(t *testing.T) {
		assert.Equal(t, Default(), FromContext(context.Background()))
	})
}
