package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied, ok := deepcopy.Copy(v).(T)
	if !ok {
		return zero, fmt.Errorf("failed to copy value of type %T", v)
	}
	return copied, nil
}

// Clone deep-copies a normalized config. A nil config clones to nil.
func (c *NormalizedConfig) Clone() (*NormalizedConfig, error) {
	if c == nil {
		return nil, nil
	}
	return DeepCopy(c)
}
