package resolver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Resolver lists and matches files relative to a base directory on top of an
// afero filesystem.
type Resolver struct {
	fs      afero.Fs
	workers int
}

type Option func(*Resolver)

// WithWorkers bounds concurrent listings in ListFilesParallel.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New creates a resolver over fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs, opts ...Option) *Resolver {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	r := &Resolver{fs: fsys, workers: 4}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fs returns the underlying filesystem.
func (r *Resolver) Fs() afero.Fs {
	return r.fs
}

// ListFiles returns every regular file below baseDir as a forward-slash
// path relative to baseDir, in directory-listing order.
func (r *Resolver) ListFiles(baseDir string) ([]string, error) {
	files := make([]string, 0)
	err := afero.Walk(r.fs, baseDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %s: %w", baseDir, err)
	}
	return files, nil
}

// Resolve returns the files below baseDir matching pattern and none of the
// exclude entries.
func (r *Resolver) Resolve(pattern, baseDir string, exclude ...string) ([]string, error) {
	files, err := r.ListFiles(baseDir)
	if err != nil {
		return nil, err
	}
	include := newMatcher(pattern)
	excludes := newMatchers(exclude)
	matched := make([]string, 0, len(files))
	for _, file := range files {
		if !include.match(file) || anyMatch(excludes, file) {
			continue
		}
		matched = append(matched, file)
	}
	return matched, nil
}

// ListFilesParallel lists several independent directories concurrently.
// The result at index i belongs to dirs[i].
func (r *Resolver) ListFilesParallel(ctx context.Context, dirs []string) ([][]string, error) {
	results := make([][]string, len(dirs))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, dir := range dirs {
		group.Go(func() error {
			files, err := r.ListFiles(dir)
			if err != nil {
				return err
			}
			results[i] = files
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Exists reports whether path exists on the resolver's filesystem.
func (r *Resolver) Exists(path string) bool {
	ok, err := afero.Exists(r.fs, path)
	return err == nil && ok
}

// IsDir reports whether path is an existing directory.
func (r *Resolver) IsDir(path string) bool {
	ok, err := afero.IsDir(r.fs, path)
	return err == nil && ok
}
