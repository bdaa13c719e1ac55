package rawconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead(t *testing.T) {
	t.Run("Should fail with ErrNotFound when the file does not exist", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "deploy.yaml"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should fail with ErrEmpty for a zero-length file", func(t *testing.T) {
		_, err := Read(writeFile(t, "deploy.yaml", ""))
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("Should parse YAML and keep declared key order", func(t *testing.T) {
		path := writeFile(t, "deploy.yaml", `version: 4
functions:
  "src/zeta.js":
    memory: 256
  "src/**/*.js":
    runtime: node-20
  "api/alpha.js": {}
`)
		doc, err := Read(path)
		require.NoError(t, err)
		version, ok := doc.Version()
		require.True(t, ok)
		assert.Equal(t, 4, version)
		assert.Equal(t, []string{"src/zeta.js", "src/**/*.js", "api/alpha.js"}, doc.Keys("/functions"))
		assert.Equal(t, []string{"version", "functions"}, doc.Keys(""))
		functions := doc.Data["functions"].(map[string]any)
		assert.Equal(t, 256, functions["src/zeta.js"].(map[string]any)["memory"])
	})

	t.Run("Should parse JSON by extension and keep declared key order", func(t *testing.T) {
		path := writeFile(t, "deploy.json", `{"version": 4, "functions": {"b/*.js": {"memory": 512}, "a/*.js": {}}}`)
		doc, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"b/*.js", "a/*.js"}, doc.Keys("/functions"))
		memory := doc.Data["functions"].(map[string]any)["b/*.js"].(map[string]any)["memory"]
		assert.Equal(t, 512, memory)
	})

	t.Run("Should treat files without a known extension as YAML", func(t *testing.T) {
		doc, err := Read(writeFile(t, "deployrc", "version: 4\nregions: [global]\n"))
		require.NoError(t, err)
		assert.Equal(t, []any{"global"}, doc.Data["regions"])
	})

	t.Run("Should wrap syntax errors with ErrParse", func(t *testing.T) {
		_, err := Read(writeFile(t, "deploy.json", `{"version": 4,`))
		assert.ErrorIs(t, err, ErrParse)

		_, err = Read(writeFile(t, "deploy.yaml", "version: 4\n  bad: [indent\n"))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("Should reject a top-level sequence", func(t *testing.T) {
		_, err := Read(writeFile(t, "deploy.yaml", "- version: 4\n"))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("Should require a numeric version", func(t *testing.T) {
		_, err := Read(writeFile(t, "deploy.yaml", "version: \"4\"\n"))
		assert.ErrorIs(t, err, ErrMissingVersion)

		_, err = Read(writeFile(t, "deploy.yaml", "regions: [global]\n"))
		assert.ErrorIs(t, err, ErrMissingVersion)
	})

	t.Run("Should skip the version check when disabled", func(t *testing.T) {
		doc, err := Read(writeFile(t, "deploy.yaml", "regions: [global]\n"), WithoutVersion())
		require.NoError(t, err)
		_, ok := doc.Version()
		assert.False(t, ok)
	})

	t.Run("Should read from an injected filesystem", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/project/deploy.yml", []byte("version: 4.0\n"), 0o644))
		doc, err := Read("/project/deploy.yml", WithFs(fsys))
		require.NoError(t, err)
		version, ok := doc.Version()
		require.True(t, ok)
		assert.Equal(t, 4, version)
		assert.True(t, doc.IsIntegralVersion())
	})
}

func TestDocument_Keys(t *testing.T) {
	t.Run("Should append merge-key entries after declared keys", func(t *testing.T) {
		path := writeFile(t, "deploy.yaml", `version: 4
base: &base
  z: 1
  y: 2
target:
  <<: *base
  a: 3
`)
		doc, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "y", "z"}, doc.Keys("/target"))
	})

	t.Run("Should return nil for a pointer that is not a mapping", func(t *testing.T) {
		doc, err := Read(writeFile(t, "deploy.yaml", "version: 4\nregions: [global]\n"))
		require.NoError(t, err)
		assert.Nil(t, doc.Keys("/regions"))
		assert.Nil(t, doc.Keys("/missing"))
	})
}
