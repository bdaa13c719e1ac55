package buildoutput

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/compozy/deployconf/engine/core"
	"github.com/tidwall/gjson"
)

// MinimumMajorVersion is the oldest build-output layout understood here.
const MinimumMajorVersion = 3

// OutputConfig is the top-level config.json of a build-output tree.
type OutputConfig struct {
	Routes    []RouteOverride               `json:"routes,omitempty"`
	Overrides map[string]core.AssetOverride `json:"overrides,omitempty"`
}

// RouteOverride is a custom route declared by the build pipeline.
type RouteOverride struct {
	Src     string             `json:"src"`
	Dest    string             `json:"dest"`
	Headers map[string]string  `json:"headers,omitempty"`
	Methods []string           `json:"methods,omitempty"`
	Status  int                `json:"status,omitempty"`
	Has     []core.Requirement `json:"has,omitempty"`
	Missing []core.Requirement `json:"missing,omitempty"`
}

// destinationPath is Dest without its query string.
func (r RouteOverride) destinationPath() string {
	dest, _, _ := strings.Cut(r.Dest, "?")
	return dest
}

// supportedVersion reports whether data declares a build-output version
// whose major component is at least MinimumMajorVersion.
func supportedVersion(data []byte) (string, bool) {
	field := gjson.GetBytes(data, "version")
	if !field.Exists() {
		return "", false
	}
	version, err := semver.NewVersion(field.String())
	if err != nil {
		return field.String(), false
	}
	return field.String(), version.Major() >= MinimumMajorVersion
}

func parseOutputConfig(data []byte) (*OutputConfig, error) {
	var cfg OutputConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode build output config: %w", err)
	}
	return &cfg, nil
}
