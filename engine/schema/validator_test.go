package schema

import (
	"errors"
	"testing"

	"github.com/compozy/deployconf/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	return map[string]any{
		"version": 4,
		"regions": []any{"us-east-1", "eu-west-1"},
		"functions": map[string]any{
			"api/**/*.ts": map[string]any{
				"runtime":      "node-20",
				"memory":       256,
				"maxDuration":  60,
				"excludeFiles": []any{"**/*.test.ts"},
			},
			"cron/job.py": map[string]any{
				"runtime":  "python-3.12",
				"schedule": "rate(5 minutes)",
			},
		},
		"assets": map[string]any{"directory": "public"},
		"routes": []any{
			map[string]any{
				"path":        "/api/(.*)",
				"destination": "/api/index.ts",
				"methods":     []any{"GET", "POST"},
				"has":         []any{map[string]any{"type": "header", "key": "x-env", "value": "^prod$"}},
			},
			map[string]any{"path": "/docs", "destination": "https://docs.example.com", "redirect": true},
		},
		"services": []any{map[string]any{"type": "redis", "name": "cache"}},
	}
}

func TestValidate(t *testing.T) {
	t.Run("Should accept a valid v4 document", func(t *testing.T) {
		require.NoError(t, Validate(validDoc(), 4))
	})

	t.Run("Should reject an unsupported version", func(t *testing.T) {
		err := Validate(map[string]any{"version": 3}, 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedVersion))
	})

	t.Run("Should report every violation together", func(t *testing.T) {
		doc := validDoc()
		doc["regions"] = []any{"mars-1"}
		doc["functions"].(map[string]any)["api/**/*.ts"].(map[string]any)["memory"] = 64
		doc["unknown"] = true

		err := Validate(doc, 4)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		paths := make([]string, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			paths = append(paths, v.Path)
		}
		assert.Contains(t, paths, "/regions/0")
		assert.Contains(t, paths, "/functions/api~1**~1*.ts/memory")
		assert.Contains(t, paths, "/")
		assert.Contains(t, err.Error(), "/regions/0: ")
	})

	t.Run("Should reject a malformed schedule", func(t *testing.T) {
		doc := validDoc()
		doc["functions"].(map[string]any)["cron/job.py"].(map[string]any)["schedule"] = "every tuesday"
		err := Validate(doc, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/functions/cron~1job.py/schedule")
	})

	t.Run("Should reject an invalid requirement regex", func(t *testing.T) {
		doc := validDoc()
		route := doc["routes"].([]any)[0].(map[string]any)
		route["has"] = []any{map[string]any{"type": "query", "key": "q", "value": "(unclosed"}}
		err := Validate(doc, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/routes/0/has/0/value")
	})

	t.Run("Should require a key for header requirements", func(t *testing.T) {
		doc := validDoc()
		route := doc["routes"].([]any)[0].(map[string]any)
		route["has"] = []any{map[string]any{"type": "header"}}
		err := Validate(doc, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/routes/0/has/0")
	})

	t.Run("Should reject a relative route destination", func(t *testing.T) {
		doc := validDoc()
		doc["routes"].([]any)[0].(map[string]any)["destination"] = "api/index.ts"
		require.Error(t, Validate(doc, 4))
	})

	t.Run("Should require a version", func(t *testing.T) {
		doc := validDoc()
		delete(doc, "version")
		require.Error(t, Validate(doc, 4))
	})
}

func TestInstancePointer(t *testing.T) {
	t.Run("Should decode escaped pattern keys", func(t *testing.T) {
		assert.Equal(t, "/functions/api~1**~1*.ts/memory", instancePointer("/functions/api~1%2A%2A~1%2A.ts/memory"))
	})

	t.Run("Should map the root location to a slash", func(t *testing.T) {
		assert.Equal(t, "/", instancePointer(""))
	})

	t.Run("Should keep segments that are not valid escapes", func(t *testing.T) {
		assert.Equal(t, "/environmentVariables/100%", instancePointer("/environmentVariables/100%"))
	})
}

func TestIsSchedule(t *testing.T) {
	t.Run("Should accept cron expressions", func(t *testing.T) {
		assert.True(t, IsSchedule("*/5 * * * *"))
		assert.True(t, IsSchedule("0 12 * * MON-FRI"))
	})

	t.Run("Should accept rate expressions", func(t *testing.T) {
		assert.True(t, IsSchedule("rate(1 hour)"))
		assert.True(t, IsSchedule("rate(10 minutes)"))
	})

	t.Run("Should reject a rate with mismatched plurality", func(t *testing.T) {
		assert.False(t, IsSchedule("rate(1 hours)"))
		assert.False(t, IsSchedule("rate(2 day)"))
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		assert.False(t, IsSchedule(""))
		assert.False(t, IsSchedule("rate(0 minutes)"))
		assert.False(t, IsSchedule("tomorrow"))
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should list every known region and runtime", func(t *testing.T) {
		s, err := Load(4)
		require.NoError(t, err)
		defs := s["definitions"].(map[string]any)
		regions := defs["region"].(map[string]any)["enum"].([]any)
		runtimes := defs["runtime"].(map[string]any)["enum"].([]any)
		want := []any{core.RegionGlobal.String()}
		for _, r := range core.AllRegions() {
			want = append(want, r.String())
		}
		assert.Equal(t, want, regions)
		wantRuntimes := []any{}
		for _, r := range core.AllRuntimes() {
			wantRuntimes = append(wantRuntimes, r.String())
		}
		assert.Equal(t, wantRuntimes, runtimes)
	})
}
