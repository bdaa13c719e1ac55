package rawconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type options struct {
	fs             afero.Fs
	requireVersion bool
}

type Option func(*options)

// WithoutVersion disables the numeric version requirement.
func WithoutVersion() Option {
	return func(o *options) {
		o.requireVersion = false
	}
}

// WithFs reads from fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// Read loads and parses the configuration file at path. Files ending in
// .json are parsed as JSON; anything else is parsed as YAML.
func Read(path string, opts ...Option) (*Document, error) {
	o := options{fs: afero.NewOsFs(), requireVersion: true}
	for _, opt := range opts {
		opt(&o)
	}
	data, err := afero.ReadFile(o.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, NewEmptyError(path)
	}
	var (
		values map[string]any
		order  map[string][]string
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		values, order, err = decodeJSON(data)
	} else {
		values, order, err = decodeYAML(data)
	}
	if err != nil {
		return nil, NewParseError(path, err)
	}
	doc := &Document{Path: path, Data: values, order: order}
	if o.requireVersion {
		if _, ok := doc.Version(); !ok {
			return nil, NewMissingVersionError(path)
		}
	}
	return doc, nil
}
