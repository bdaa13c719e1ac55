package monorepo

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/compozy/deployconf/engine/core"
)

// ResolveRoot returns the common ancestor of every source file referenced
// by cfg's entrypoints when it lies strictly above projectFolder, and
// projectFolder otherwise.
func ResolveRoot(projectFolder string, cfg *core.NormalizedConfig) string {
	sources := sourceFiles(cfg)
	if len(sources) == 0 {
		return projectFolder
	}
	prefix := commonSegments(sources)
	root := strings.Join(prefix, "/")
	if root == "" && strings.HasPrefix(sources[0], "/") {
		root = "/"
	}
	if isStrictAncestor(root, filepath.ToSlash(projectFolder)) {
		return filepath.FromSlash(root)
	}
	return projectFolder
}

func sourceFiles(cfg *core.NormalizedConfig) []string {
	if cfg == nil {
		return nil
	}
	var sources []string
	for _, entry := range cfg.Entrypoints {
		if entry.Package == nil {
			continue
		}
		for source := range entry.Package.FilePathMap {
			sources = append(sources, filepath.ToSlash(source))
		}
	}
	slices.Sort(sources)
	return sources
}

// commonSegments returns the longest run of leading path segments shared
// by every path.
func commonSegments(paths []string) []string {
	prefix := strings.Split(paths[0], "/")
	for _, p := range paths[1:] {
		segments := strings.Split(p, "/")
		n := 0
		for n < len(prefix) && n < len(segments) && prefix[n] == segments[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

func isStrictAncestor(ancestor, dir string) bool {
	if ancestor == dir {
		return false
	}
	if ancestor == "/" {
		return strings.HasPrefix(dir, "/")
	}
	return strings.HasPrefix(dir, ancestor+"/")
}

// isWithin reports whether p is dir or lies below it.
func isWithin(p, dir string) bool {
	p, dir = filepath.ToSlash(p), strings.TrimSuffix(filepath.ToSlash(dir), "/")
	if dir == "" {
		return strings.HasPrefix(p, "/")
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
