package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/deployconf/engine/core"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "disabled", "--env-file", ""))
	err := root.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestNormalizeCmd(t *testing.T) {
	t.Run("Should print the normalized configuration", func(t *testing.T) {
		dir := writeProject(t, map[string]string{
			"deploy.yaml":  "version: 4\nregions: [us-east-1]\nfunctions:\n  \"api/*.js\": {}\n",
			"api/index.js": "",
		})
		out, err := runRoot(t, "normalize", filepath.Join(dir, "deploy.yaml"), "--default-memory", "512")
		require.NoError(t, err)

		var cfg core.NormalizedConfig
		require.NoError(t, json.Unmarshal([]byte(out), &cfg))
		require.Len(t, cfg.Entrypoints, 1)
		assert.Equal(t, "api/index.js", cfg.Entrypoints[0].Path)
		assert.Equal(t, 512, cfg.Entrypoints[0].Memory)
		assert.Equal(t, []core.Region{core.RegionUSEast1}, cfg.Regions)
	})

	t.Run("Should fail when the result is not deployable", func(t *testing.T) {
		dir := writeProject(t, map[string]string{"deploy.yaml": "version: 4\n"})
		out, err := runRoot(t, "normalize", filepath.Join(dir, "deploy.yaml"), "--format", "yaml")
		require.Error(t, err)
		assert.Contains(t, out, "errors:")
	})

	t.Run("Should reject invalid settings", func(t *testing.T) {
		dir := writeProject(t, map[string]string{"deploy.yaml": "version: 4\n"})
		_, err := runRoot(t, "normalize", filepath.Join(dir, "deploy.yaml"), "--default-runtime", "python-2.7")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load settings")
	})
}

func TestSchemaCmd(t *testing.T) {
	t.Run("Should print the normalized configuration schema", func(t *testing.T) {
		out, err := runRoot(t, "schema")
		require.NoError(t, err)
		assert.Contains(t, out, draft07)
		assert.Contains(t, out, "entrypoints")
		assert.Contains(t, out, "serverless-function-streaming")
	})

	t.Run("Should print the project configuration schema", func(t *testing.T) {
		out, err := runRoot(t, "schema", "--input")
		require.NoError(t, err)
		assert.Contains(t, out, "excludeFiles")
	})

	t.Run("Should reject an unknown configuration version", func(t *testing.T) {
		_, err := runRoot(t, "schema", "--input", "--config-version", "9")
		require.Error(t, err)
	})
}

func TestIsPathWithinDirectory(t *testing.T) {
	t.Run("Should accept nested paths and reject siblings", func(t *testing.T) {
		assert.True(t, isPathWithinDirectory("/work/app/.env", "/work/app"))
		assert.False(t, isPathWithinDirectory("/work/app-b/.env", "/work/app"))
		assert.False(t, isPathWithinDirectory("/work/.env", "/work/app"))
	})
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should only collect changed settings flags", func(t *testing.T) {
		cmd := NormalizeCmd()
		cmd.Flags().String("log-level", "info", "")
		require.NoError(t, cmd.ParseFlags([]string{"--default-memory", "256", "--log-level", "debug", "--no-version"}))
		flags := map[string]any{}
		extractCLIFlags(cmd, flags)
		assert.Equal(t, map[string]any{"default-memory": 256, "log-level": "debug"}, flags)
	})
}
