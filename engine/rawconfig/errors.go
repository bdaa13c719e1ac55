package rawconfig

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("configuration file not found")
	ErrEmpty          = errors.New("configuration file is empty")
	ErrParse          = errors.New("failed to parse configuration file")
	ErrMissingVersion = errors.New("configuration is missing a numeric version field")
)

func NewNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

func NewEmptyError(path string) error {
	return fmt.Errorf("%w: %s", ErrEmpty, path)
}

func NewParseError(path string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrParse, path, err)
}

func NewMissingVersionError(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingVersion, path)
}
