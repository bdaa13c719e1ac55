package normalize

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"

	"github.com/compozy/deployconf/engine/buildoutput"
	"github.com/compozy/deployconf/engine/core"
	"github.com/compozy/deployconf/engine/declarative"
	"github.com/compozy/deployconf/engine/rawconfig"
	"github.com/compozy/deployconf/engine/resolver"
	"github.com/compozy/deployconf/engine/schema"
	"github.com/compozy/deployconf/pkg/config"
	"github.com/compozy/deployconf/pkg/logger"
	"github.com/spf13/afero"
)

// LatestVersion is assumed for documents read without a version.
const LatestVersion = 4

const (
	nothingToServeWarning = "no entrypoints or asset paths were resolved from the configuration"
	notDeployableError    = "configuration cannot be deployed: it resolves to no entrypoints, assets or routes"
)

type options struct {
	fs             afero.Fs
	settings       *config.Config
	requireVersion bool
}

type Option func(*options)

// WithoutVersion accepts documents without a version field and parses them
// as LatestVersion.
func WithoutVersion() Option {
	return func(o *options) {
		o.requireVersion = false
	}
}

// WithFs reads the configuration and project files from fsys.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithSettings overrides the settings found in the context.
func WithSettings(cfg *config.Config) Option {
	return func(o *options) {
		o.settings = cfg
	}
}

// Parse reads the configuration at configPath, validates it and compiles it,
// together with any build output in the same project folder, into a
// NormalizedConfig. Read and validation failures are returned as errors;
// everything else is reported in the result's Warnings and Errors.
func Parse(ctx context.Context, configPath string, opts ...Option) (*core.NormalizedConfig, error) {
	o := options{fs: afero.NewOsFs(), requireVersion: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.settings == nil {
		o.settings = config.FromContext(ctx)
	}
	log := logger.FromContext(ctx).With("config", configPath)

	readOpts := []rawconfig.Option{rawconfig.WithFs(o.fs)}
	if !o.requireVersion {
		readOpts = append(readOpts, rawconfig.WithoutVersion())
	}
	doc, err := rawconfig.Read(configPath, readOpts...)
	if err != nil {
		return nil, err
	}
	version, data, err := resolveVersion(doc)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(data, version); err != nil {
		return nil, err
	}
	log.Debug("Configuration validated", "version", version)

	res := resolver.New(o.fs, resolver.WithWorkers(o.settings.Normalizer.DiscoveryWorkers))
	projectDir := filepath.Dir(configPath)
	var (
		result *core.NormalizedConfig
		diags  core.Diagnostics
	)
	switch version {
	case 4:
		parser := declarative.NewParser(res, o.settings.Normalizer)
		result, diags, err = parser.Parse(ctx, doc, projectDir)
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewUnsupportedVersionError(version)
	}

	translator := buildoutput.NewTranslator(res, o.settings.Normalizer)
	patch, translateDiags, err := translator.Translate(ctx, projectDir, result)
	if err != nil {
		return nil, err
	}
	diags.Extend(translateDiags)
	if patch != nil {
		result, err = core.Merge(result, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to merge build output: %w", err)
		}
	}

	result = FilterFunctionAssets(result)
	if len(result.Entrypoints) == 0 && (result.Assets == nil || len(result.Assets.Paths) == 0) {
		diags.Warnf("%s", nothingToServeWarning)
		if len(result.Routes) == 0 {
			diags.Errorf("%s", notDeployableError)
		}
	}
	diags.ApplyTo(result)
	for _, msg := range diags.Errors {
		log.Warn("Configuration error", "error", msg)
	}
	log.Debug("Configuration normalized",
		"entrypoints", len(result.Entrypoints),
		"routes", len(result.Routes),
		"errors", len(result.Errors),
	)
	return result, nil
}

// resolveVersion returns the document's version and the data to validate.
// A document read without a version is validated as LatestVersion.
func resolveVersion(doc *rawconfig.Document) (int, map[string]any, error) {
	version, ok := doc.Version()
	if !ok {
		data := maps.Clone(doc.Data)
		if data == nil {
			data = map[string]any{}
		}
		data["version"] = LatestVersion
		return LatestVersion, data, nil
	}
	if !doc.IsIntegralVersion() {
		return 0, nil, schema.NewUnsupportedVersionError(version)
	}
	return version, doc.Data, nil
}
