package declarative

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"

	"github.com/compozy/deployconf/engine/core"
	"github.com/compozy/deployconf/engine/rawconfig"
	"github.com/compozy/deployconf/engine/resolver"
	"github.com/compozy/deployconf/pkg/config"
	"github.com/compozy/deployconf/pkg/logger"
)

var ErrInvalidDocument = errors.New("invalid v4 document")

// Parser turns a validated version 4 document into a NormalizedConfig.
type Parser struct {
	resolver *resolver.Resolver
	settings config.NormalizerConfig
}

func NewParser(res *resolver.Resolver, settings config.NormalizerConfig) *Parser {
	if res == nil {
		res = resolver.New(nil)
	}
	return &Parser{resolver: res, settings: settings}
}

// pattern is a function pattern key with its own settings.
type pattern struct {
	key      string
	settings FunctionSettings
}

// Parse resolves doc against the files of projectDir. Problems that do not
// prevent the rest of the config from being built are returned as
// diagnostics.
func (p *Parser) Parse(
	ctx context.Context,
	doc *rawconfig.Document,
	projectDir string,
) (*core.NormalizedConfig, core.Diagnostics, error) {
	var diags core.Diagnostics
	if doc == nil {
		return nil, diags, fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	cfg, err := Decode(doc.Data)
	if err != nil {
		return nil, diags, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	log := logger.FromContext(ctx).With("stage", "declarative")

	patterns := make([]pattern, 0, len(cfg.Functions))
	for _, key := range doc.Keys("/functions") {
		patterns = append(patterns, pattern{key: key, settings: cfg.Functions[key]})
	}

	out := &core.NormalizedConfig{
		Regions:              resolveRegions(cfg.Regions),
		EnvironmentVariables: cfg.EnvironmentVariables,
		Commands:             cfg.Commands,
		Entrypoints:          []core.Entrypoint{},
		Routes:               []core.Route{},
	}

	var files []string
	if len(patterns) > 0 || cfg.Assets != nil {
		files, err = p.resolver.ListFiles(projectDir)
		if err != nil {
			diags.Errorf("failed to list project files: %v", err)
		}
	}
	out.Entrypoints = p.resolveEntrypoints(patterns, files)
	log.Debug("Resolved entrypoints", "patterns", len(patterns), "entrypoints", len(out.Entrypoints))

	if cfg.Assets != nil {
		assets, err := p.resolveAssets(cfg.Assets, patterns, projectDir)
		if err != nil {
			diags.Errorf("failed to resolve assets in %s: %v", cfg.Assets.Directory, err)
		} else {
			out.Assets = assets
			log.Debug("Resolved assets", "directory", cfg.Assets.Directory, "paths", len(assets.Paths))
		}
	}

	for _, route := range cfg.Routes {
		out.Routes = append(out.Routes, buildRoute(route))
	}
	out.Services = buildServices(cfg.Services, &diags)
	return out, diags, nil
}

func resolveRegions(declared []string) []core.Region {
	if len(declared) == 0 {
		return core.AllRegions()
	}
	out := make([]core.Region, 0, len(declared))
	add := func(r core.Region) {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	for _, r := range declared {
		if core.Region(r) == core.RegionGlobal {
			for _, known := range core.AllRegions() {
				add(known)
			}
			continue
		}
		add(core.Region(r))
	}
	return out
}

// settingsFor merges the settings of every pattern selecting rel, in
// declared order. ok is false when no pattern selects rel.
func settingsFor(patterns []pattern, rel string) (settings FunctionSettings, ok bool) {
	var matched []FunctionSettings
	for _, pt := range patterns {
		if resolver.Selects(pt.key, rel, pt.settings.ExcludeFiles) {
			matched = append(matched, pt.settings)
		}
	}
	if len(matched) == 0 {
		return FunctionSettings{}, false
	}
	return mergeSettings(matched...), true
}

func (p *Parser) resolveEntrypoints(patterns []pattern, files []string) []core.Entrypoint {
	entrypoints := make([]core.Entrypoint, 0)
	registered := make(map[string]struct{})
	for _, pt := range patterns {
		for _, file := range files {
			if !resolver.Selects(pt.key, file, pt.settings.ExcludeFiles) {
				continue
			}
			if _, exists := registered[file]; exists {
				continue
			}
			if claimedByOtherKey(patterns, pt.key, file) {
				continue
			}
			settings, _ := settingsFor(patterns, file)
			entrypoints = append(entrypoints, p.buildEntrypoint(file, settings))
			registered[file] = struct{}{}
		}
	}
	return entrypoints
}

// claimedByOtherKey reports whether a different pattern key names file exactly.
func claimedByOtherKey(patterns []pattern, key, file string) bool {
	for _, pt := range patterns {
		if pt.key != key && pt.key == file {
			return true
		}
	}
	return false
}

func (p *Parser) buildEntrypoint(file string, settings FunctionSettings) core.Entrypoint {
	runtime := core.Runtime(p.settings.DefaultRuntime)
	if settings.Runtime != nil {
		runtime = core.Runtime(*settings.Runtime)
	}
	memory := p.settings.DefaultMemory
	if settings.Memory != nil {
		memory = *settings.Memory
	}
	maxDuration := p.settings.DefaultMaxDuration
	if settings.MaxDuration != nil {
		maxDuration = *settings.MaxDuration
	}
	entry := core.Entrypoint{
		Path:                 file,
		Runtime:              runtime,
		Memory:               memory,
		MaxDuration:          maxDuration,
		Symlinks:             settings.Symlinks,
		EnvironmentVariables: settings.EnvironmentVariables,
		Streaming:            runtime.SupportsStreaming(),
	}
	if settings.Schedule != nil {
		entry.Schedule = *settings.Schedule
	}
	return entry
}

func (p *Parser) resolveAssets(
	assetsCfg *AssetsConfig,
	patterns []pattern,
	projectDir string,
) (*core.Assets, error) {
	dir := path.Clean(filepath.ToSlash(assetsCfg.Directory))
	files, err := p.resolver.ListFiles(filepath.Join(projectDir, filepath.FromSlash(dir)))
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		if core.IsDeniedAsset(file) {
			continue
		}
		rel := file
		if dir != "." {
			rel = dir + "/" + file
		}
		if _, isFunction := settingsFor(patterns, rel); isFunction {
			continue
		}
		paths = append(paths, rel)
	}
	slices.Sort(paths)
	prefix := dir
	if assetsCfg.PrefixToStrip != nil {
		prefix = *assetsCfg.PrefixToStrip
	}
	return &core.Assets{
		Paths:         slices.Compact(paths),
		PrefixToStrip: prefix,
		Overrides:     assetsCfg.Overrides,
		DynamicRoutes: assetsCfg.DynamicRoutes,
		PopulateCache: assetsCfg.PopulateCache,
	}, nil
}

func buildRoute(rc RouteConfig) core.Route {
	methods := rc.Methods
	if len(methods) == 0 {
		methods = []string{core.MethodAny}
	}
	return core.Route{
		Path:                 rc.Path,
		Destination:          rc.Destination,
		Handler:              core.ClassifyDestination(rc.Destination, rc.Redirect),
		Methods:              methods,
		Headers:              rc.Headers,
		PositiveRequirements: rc.Has,
		NegativeRequirements: rc.Missing,
		Status:               rc.Status,
	}
}
