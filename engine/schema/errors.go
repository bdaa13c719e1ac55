package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported configuration version")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

func NewUnsupportedVersionError(version int) error {
	return fmt.Errorf("%w: %d (supported: %v)", ErrUnsupportedVersion, version, SupportedVersions())
}

// Violation is one schema failure at a JSON pointer into the document.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Version    int
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s (version %d): %s", ErrInvalidConfig, e.Version, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}
