package buildoutput

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/compozy/deployconf/engine/core"
	"github.com/compozy/deployconf/engine/monorepo"
	"github.com/compozy/deployconf/engine/resolver"
	"github.com/compozy/deployconf/pkg/config"
	"github.com/compozy/deployconf/pkg/logger"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	configFile   = "config.json"
	functionsDir = "functions"
	staticDir    = "static"
	funcSuffix   = ".func"

	defaultWorkers = 4
)

// Translator folds a build-output tree into a patch for a NormalizedConfig.
type Translator struct {
	resolver *resolver.Resolver
	settings config.NormalizerConfig
}

func NewTranslator(res *resolver.Resolver, settings config.NormalizerConfig) *Translator {
	if res == nil {
		res = resolver.New(nil)
	}
	if settings.DiscoveryWorkers <= 0 {
		settings.DiscoveryWorkers = defaultWorkers
	}
	return &Translator{resolver: res, settings: settings}
}

// function is one discovered descriptor and its read outcome.
type function struct {
	rel  string
	desc *Descriptor
	err  error
}

// Translate reads the build output below projectDir and returns a patch to
// merge into base. base is only read. A nil patch means no supported build
// output exists.
func (t *Translator) Translate(
	ctx context.Context,
	projectDir string,
	base *core.NormalizedConfig,
) (*core.NormalizedConfig, core.Diagnostics, error) {
	var diags core.Diagnostics
	log := logger.FromContext(ctx).With("stage", "buildoutput")
	outputDir := filepath.Join(projectDir, filepath.FromSlash(t.settings.OutputDir))
	data, err := afero.ReadFile(t.resolver.Fs(), filepath.Join(outputDir, configFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("No build output found", "dir", outputDir)
			return nil, diags, nil
		}
		return nil, diags, fmt.Errorf("failed to read build output config: %w", err)
	}
	version, ok := supportedVersion(data)
	if !ok {
		diags.Warnf("build output in %s ignored: unsupported version %q", t.settings.OutputDir, version)
		return nil, diags, nil
	}
	outputCfg, err := parseOutputConfig(data)
	if err != nil {
		diags.Errorf("%v", err)
		return nil, diags, nil
	}

	functions, err := t.readFunctions(ctx, filepath.Join(outputDir, functionsDir))
	if err != nil {
		return nil, diags, err
	}
	log.Debug("Discovered build output functions", "count", len(functions))

	patch := &core.NormalizedConfig{}
	var translated []core.Entrypoint
	var routes []core.Route
	var regionUnion []core.Region
	if base != nil {
		regionUnion = slices.Clone(base.Regions)
	}
	pending := make([]pendingMap, 0)
	for _, fn := range functions {
		entry, fnRegions, fnRoutes, ok := t.translateFunction(fn, projectDir, outputDir, outputCfg, &diags)
		if !ok {
			continue
		}
		for _, r := range fnRegions {
			if !slices.Contains(regionUnion, r) {
				regionUnion = append(regionUnion, r)
			}
		}
		if entry.Package == nil {
			pending = append(pending, pendingMap{index: len(translated), dir: t.functionDir(outputDir, fn.rel)})
		}
		translated = append(translated, entry)
		routes = append(routes, fnRoutes...)
	}
	if err := t.fillDefaultFileMaps(ctx, translated, pending); err != nil {
		return nil, diags, err
	}

	if len(translated) > 0 {
		patch.Regions = regionUnion
		patch.Entrypoints = mergeEntrypoints(base, translated)
		patch.Routes = append(baseRoutes(base), routes...)
	}
	patch.Assets = t.assetsPatch(projectDir, outputDir, base, outputCfg)

	root := monorepo.ResolveRoot(projectDir, patch)
	whitelist := []string{filepath.ToSlash(projectDir) + "/*"}
	whitelist = append(whitelist, monorepo.FilesOutside(projectDir, monorepo.FilePathMaps(patch.Entrypoints))...)
	patch.UserArchive = &core.UserArchive{RootOverwrite: root, FileWhitelist: whitelist}
	log.Debug("Translated build output", "entrypoints", len(translated), "root", root)
	return patch, diags, nil
}

func (t *Translator) readFunctions(ctx context.Context, dir string) ([]function, error) {
	if !t.resolver.IsDir(dir) {
		return nil, nil
	}
	rels, err := t.resolver.Resolve("**/"+descriptorFile, dir)
	if err != nil {
		return nil, err
	}
	functions := make([]function, len(rels))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(t.settings.DiscoveryWorkers)
	for i, rel := range rels {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			desc, err := ReadDescriptor(t.resolver.Fs(), filepath.Join(dir, filepath.FromSlash(rel)))
			functions[i] = function{rel: path.Dir(rel), desc: desc, err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return functions, nil
}

func (t *Translator) functionDir(outputDir, rel string) string {
	return filepath.Join(outputDir, functionsDir, filepath.FromSlash(rel))
}

func functionPath(rel string) string {
	return "/" + strings.TrimSuffix(rel, funcSuffix)
}

func (t *Translator) translateFunction(
	fn function,
	projectDir, outputDir string,
	outputCfg *OutputConfig,
	diags *core.Diagnostics,
) (core.Entrypoint, []core.Region, []core.Route, bool) {
	name := functionPath(fn.rel)
	if fn.err != nil {
		diags.Errorf("function %s: %v", name, fn.err)
		return core.Entrypoint{}, nil, nil, false
	}
	desc := fn.desc
	runtime, ok := TranslateRuntime(desc.Runtime)
	if !ok {
		diags.Errorf("function %s: unsupported runtime %q", name, desc.Runtime)
		return core.Entrypoint{}, nil, nil, false
	}
	codes := desc.Regions
	if len(codes) == 0 {
		codes = []string{BaselineRegion}
	}
	fnRegions := make([]core.Region, 0, len(codes))
	for _, code := range codes {
		region, ok := TranslateRegion(code)
		if !ok {
			diags.Errorf("function %s: unsupported region %q", name, code)
			return core.Entrypoint{}, nil, nil, false
		}
		fnRegions = append(fnRegions, region)
	}

	dir := t.functionDir(outputDir, fn.rel)
	handlerPath, err := filepath.Rel(projectDir, filepath.Join(dir, filepath.FromSlash(desc.Handler)))
	if err != nil {
		diags.Errorf("function %s: %v", name, err)
		return core.Entrypoint{}, nil, nil, false
	}
	entry := core.Entrypoint{
		Path:                 filepath.ToSlash(handlerPath),
		Runtime:              runtime,
		Memory:               t.settings.DefaultMemory,
		MaxDuration:          t.settings.DefaultMaxDuration,
		EnvironmentVariables: desc.Environment.Flatten(),
		Streaming:            runtime.SupportsStreaming(),
	}
	if desc.Memory != nil {
		entry.Memory = *desc.Memory
	}
	if desc.MaxDuration != nil {
		entry.MaxDuration = *desc.MaxDuration
	}
	if len(desc.FilePathMap) > 0 {
		fileMap := make(map[string]string, len(desc.FilePathMap))
		for source, target := range desc.FilePathMap {
			fileMap[filepath.Join(projectDir, filepath.FromSlash(source))] = target
		}
		entry.Package = &core.Package{FilePathMap: fileMap}
	}

	destination := "/" + entry.Path
	handler := core.FunctionHandler(runtime)
	routes := []core.Route{{
		Path:        name,
		Destination: destination,
		Handler:     handler,
		Methods:     []string{core.MethodAny},
	}}
	for _, override := range outputCfg.Routes {
		if override.destinationPath() != name {
			continue
		}
		methods := override.Methods
		if len(methods) == 0 {
			methods = []string{core.MethodAny}
		}
		routes = append(routes, core.Route{
			Path:                 override.Src,
			Destination:          destination,
			Handler:              handler,
			Methods:              methods,
			Headers:              override.Headers,
			PositiveRequirements: override.Has,
			NegativeRequirements: override.Missing,
			Status:               override.Status,
		})
	}
	return entry, fnRegions, routes, true
}

// pendingMap marks a translated entrypoint whose file map defaults to the
// contents of its function directory.
type pendingMap struct {
	index int
	dir   string
}

func (t *Translator) fillDefaultFileMaps(ctx context.Context, entries []core.Entrypoint, pending []pendingMap) error {
	if len(pending) == 0 {
		return nil
	}
	dirs := make([]string, len(pending))
	for i, p := range pending {
		dirs[i] = p.dir
	}
	listings, err := t.resolver.ListFilesParallel(ctx, dirs)
	if err != nil {
		return err
	}
	for i, p := range pending {
		fileMap := make(map[string]string, len(listings[i]))
		for _, rel := range listings[i] {
			// the descriptor describes the package and is not part of it
			if path.Base(rel) == descriptorFile {
				continue
			}
			fileMap[filepath.Join(p.dir, filepath.FromSlash(rel))] = rel
		}
		entries[p.index].Package = &core.Package{FilePathMap: fileMap}
	}
	return nil
}

// mergeEntrypoints returns base's entrypoints followed by translated ones.
// A translated entrypoint replaces a base entrypoint with the same path.
func mergeEntrypoints(base *core.NormalizedConfig, translated []core.Entrypoint) []core.Entrypoint {
	var out []core.Entrypoint
	if base != nil {
		out = slices.Clone(base.Entrypoints)
	}
	for _, entry := range translated {
		idx := slices.IndexFunc(out, func(e core.Entrypoint) bool { return e.Path == entry.Path })
		if idx >= 0 {
			out[idx] = entry
			continue
		}
		out = append(out, entry)
	}
	return out
}

func baseRoutes(base *core.NormalizedConfig) []core.Route {
	if base == nil {
		return nil
	}
	return slices.Clone(base.Routes)
}

func (t *Translator) assetsPatch(
	projectDir, outputDir string,
	base *core.NormalizedConfig,
	outputCfg *OutputConfig,
) *core.Assets {
	var assets *core.Assets
	hasBaseAssets := base != nil && base.Assets != nil && len(base.Assets.Paths) > 0
	static := filepath.Join(outputDir, staticDir)
	if !hasBaseAssets && t.resolver.IsDir(static) {
		if files, err := t.resolver.ListFiles(static); err == nil {
			prefix, _ := filepath.Rel(projectDir, static)
			prefix = filepath.ToSlash(prefix)
			paths := make([]string, 0, len(files))
			for _, file := range files {
				if !core.IsDeniedAsset(file) {
					paths = append(paths, prefix+"/"+file)
				}
			}
			slices.Sort(paths)
			assets = &core.Assets{Paths: paths, PrefixToStrip: prefix}
		}
	}
	if len(outputCfg.Overrides) == 0 {
		return assets
	}
	if assets == nil {
		assets = &core.Assets{}
	}
	overrides := make(map[string]core.AssetOverride)
	if base != nil && base.Assets != nil {
		maps.Copy(overrides, base.Assets.Overrides)
	}
	maps.Copy(overrides, outputCfg.Overrides)
	assets.Overrides = overrides
	return assets
}
