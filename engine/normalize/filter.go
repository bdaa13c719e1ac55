package normalize

import "github.com/compozy/deployconf/engine/core"

// FilterFunctionAssets returns a shallow copy of cfg whose asset paths
// exclude every entrypoint path. cfg is left untouched.
func FilterFunctionAssets(cfg *core.NormalizedConfig) *core.NormalizedConfig {
	if cfg == nil {
		return nil
	}
	out := *cfg
	if cfg.Assets == nil {
		return &out
	}
	functions := make(map[string]struct{}, len(cfg.Entrypoints))
	for _, entry := range cfg.Entrypoints {
		functions[entry.Path] = struct{}{}
	}
	assets := *cfg.Assets
	assets.Paths = make([]string, 0, len(cfg.Assets.Paths))
	for _, p := range cfg.Assets.Paths {
		if _, isFunction := functions[p]; isFunction {
			continue
		}
		assets.Paths = append(assets.Paths, p)
	}
	out.Assets = &assets
	return &out
}
