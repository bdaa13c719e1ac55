package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDestination(t *testing.T) {
	t.Run("Should prefer the redirect flag over the destination shape", func(t *testing.T) {
		assert.Equal(t, HandlerRedirect, ClassifyDestination("/api/index.ts", true))
		assert.Equal(t, HandlerRedirect, ClassifyDestination("https://example.com", true))
	})

	t.Run("Should classify external URLs as proxies", func(t *testing.T) {
		assert.Equal(t, HandlerProxy, ClassifyDestination("https://example.com/x", false))
		assert.Equal(t, HandlerProxy, ClassifyDestination("HTTP://example.com", false))
	})

	t.Run("Should classify local paths as functions", func(t *testing.T) {
		assert.Equal(t, HandlerFunction, ClassifyDestination("/api/index.ts", false))
		assert.Equal(t, HandlerFunction, ClassifyDestination("/httpdocs/index.ts", false))
	})
}

func TestRuntime(t *testing.T) {
	t.Run("Should support streaming for node and bun runtimes", func(t *testing.T) {
		assert.True(t, RuntimeNode20.SupportsStreaming())
		assert.True(t, RuntimeBun1.SupportsStreaming())
		assert.True(t, Runtime("").SupportsStreaming())
		assert.False(t, RuntimePython312.SupportsStreaming())
	})

	t.Run("Should pick the function handler from the runtime", func(t *testing.T) {
		assert.Equal(t, HandlerFunctionStreaming, FunctionHandler(RuntimeNode22))
		assert.Equal(t, HandlerFunction, FunctionHandler(RuntimePython312))
	})

	t.Run("Should only accept known runtimes", func(t *testing.T) {
		assert.True(t, RuntimeNode18.IsValid())
		assert.False(t, Runtime("python-3.9").IsValid())
	})
}

func TestRegion(t *testing.T) {
	t.Run("Should not treat the global alias as a region", func(t *testing.T) {
		assert.False(t, RegionGlobal.IsValid())
		assert.NotContains(t, AllRegions(), RegionGlobal)
	})

	t.Run("Should return a copy of the known regions", func(t *testing.T) {
		regions := AllRegions()
		regions[0] = "mars-1"
		assert.Equal(t, RegionUSEast1, AllRegions()[0])
	})
}

func TestMerge(t *testing.T) {
	t.Run("Should fold the patch into a copy of the base", func(t *testing.T) {
		base := &NormalizedConfig{
			Regions:              []Region{RegionUSEast1},
			EnvironmentVariables: map[string]string{"A": "1", "B": "2"},
			Assets: &Assets{
				Paths:     []string{"public/index.html"},
				Overrides: map[string]AssetOverride{"index.html": {ContentType: "text/html"}},
			},
		}
		patch := &NormalizedConfig{
			Regions:              []Region{RegionEUWest1},
			EnvironmentVariables: map[string]string{"B": "3"},
			Assets: &Assets{
				Overrides: map[string]AssetOverride{"app.js": {Path: "app"}},
			},
		}

		merged, err := Merge(base, patch)
		require.NoError(t, err)
		assert.Equal(t, []Region{RegionEUWest1}, merged.Regions)
		assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.EnvironmentVariables)
		assert.Equal(t, []string{"public/index.html"}, merged.Assets.Paths)
		assert.Len(t, merged.Assets.Overrides, 2)

		assert.Equal(t, []Region{RegionUSEast1}, base.Regions)
		assert.Equal(t, "2", base.EnvironmentVariables["B"])
		assert.Len(t, base.Assets.Overrides, 1)
	})

	t.Run("Should keep the base when the patch is nil", func(t *testing.T) {
		base := &NormalizedConfig{Commands: []string{"npm run build"}}
		merged, err := Merge(base, nil)
		require.NoError(t, err)
		assert.Equal(t, base, merged)
		assert.NotSame(t, base, merged)
	})
}

func TestDiagnostics(t *testing.T) {
	t.Run("Should append diagnostics in order", func(t *testing.T) {
		var d Diagnostics
		d.Warnf("first %d", 1)
		var other Diagnostics
		other.Errorf("broken %s", "x")
		other.Warnf("second")
		d.Extend(other)

		cfg := &NormalizedConfig{Warnings: []string{"existing"}}
		d.ApplyTo(cfg)
		assert.True(t, d.HasErrors())
		assert.Equal(t, []string{"existing", "first 1", "second"}, cfg.Warnings)
		assert.Equal(t, []string{"broken x"}, cfg.Errors)
	})
}

func TestIsDeniedAsset(t *testing.T) {
	t.Run("Should deny server config files ignoring case", func(t *testing.T) {
		assert.True(t, IsDeniedAsset("public/.htaccess"))
		assert.True(t, IsDeniedAsset("public/admin/.HTPasswd"))
		assert.True(t, IsDeniedAsset("site.htaccess"))
		assert.False(t, IsDeniedAsset("public/htaccess.txt"))
		assert.False(t, IsDeniedAsset("public/.htaccess/index.html"))
	})
}
