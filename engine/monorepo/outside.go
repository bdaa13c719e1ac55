package monorepo

import (
	"slices"

	"github.com/compozy/deployconf/engine/core"
)

// FilesOutside lists the source files of every map that live outside
// projectFolder. Keys of each map are visited in sorted order; duplicates
// across maps are kept.
func FilesOutside(projectFolder string, maps []map[string]string) []string {
	out := make([]string, 0)
	for _, m := range maps {
		keys := make([]string, 0, len(m))
		for source := range m {
			keys = append(keys, source)
		}
		slices.Sort(keys)
		for _, source := range keys {
			if !isWithin(source, projectFolder) {
				out = append(out, source)
			}
		}
	}
	return out
}

// FilePathMaps collects the file maps of every entrypoint that has one.
func FilePathMaps(entrypoints []core.Entrypoint) []map[string]string {
	maps := make([]map[string]string, 0, len(entrypoints))
	for _, entry := range entrypoints {
		if entry.Package != nil && len(entry.Package.FilePathMap) > 0 {
			maps = append(maps, entry.Package.FilePathMap)
		}
	}
	return maps
}
