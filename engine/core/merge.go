package core

import (
	"fmt"

	"dario.cat/mergo"
)

// Merge folds patch into a copy of base. Mappings merge key by key with the
// patch winning on collision; non-empty patch slices and scalars replace the
// base value; empty patch fields leave the base untouched.
func Merge(base, patch *NormalizedConfig) (*NormalizedConfig, error) {
	merged, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone base config: %w", err)
	}
	if merged == nil {
		merged = &NormalizedConfig{}
	}
	if patch == nil {
		return merged, nil
	}
	src, err := patch.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone patch: %w", err)
	}
	if err := mergo.Merge(merged, src, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge configs: %w", err)
	}
	return merged, nil
}
