package core

import (
	"path"
	"strings"
)

// DeniedAssetSuffixes are file name endings never published as assets.
var DeniedAssetSuffixes = []string{".htaccess", ".htpasswd"}

// IsDeniedAsset reports whether the base name of file ends, ignoring case,
// with one of DeniedAssetSuffixes.
func IsDeniedAsset(file string) bool {
	name := strings.ToLower(path.Base(file))
	for _, suffix := range DeniedAssetSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
