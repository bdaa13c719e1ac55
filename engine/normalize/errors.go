package normalize

import (
	"errors"
	"fmt"
)

var ErrUnsupportedVersion = errors.New("no parser registered for configuration version")

func NewUnsupportedVersionError(version int) error {
	return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
}
