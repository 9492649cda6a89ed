// Package output owns the destination directory of a run: it clears it
// before a build and writes rendered pages into it.
package output

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/util/sets"
)

// ErrWrite indicates the destination could not be created, cleared, or written.
var ErrWrite = errors.New("output write failed")

// Dir is a destination directory.
type Dir struct {
	root    string
	created sets.Set[string]
}

// NewDir returns a Dir rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: filepath.Clean(root), created: sets.New[string]()}
}

// Root returns the destination path.
func (d *Dir) Root() string { return d.root }

// Clear removes everything under the root, files first and then the
// emptied directories deepest first, and makes sure the root exists.
func (d *Dir) Clear() error {
	d.created = sets.New[string]()

	info, err := os.Stat(d.root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return d.mkdir(d.root)
	case err != nil:
		return writeErr(err, "stat output directory", d.root)
	case !info.IsDir():
		return writeErr(fmt.Errorf("%s is not a directory", d.root), "clear output directory", d.root)
	}

	var files, dirs []string
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == d.root {
			return nil
		}
		if entry.IsDir() {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return writeErr(err, "scan output directory", d.root)
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return writeErr(err, "remove file", f)
		}
	}

	slices.SortStableFunc(dirs, func(a, b string) int {
		return cmp.Compare(depth(b), depth(a))
	})
	for _, dir := range dirs {
		if err := os.Remove(dir); err != nil {
			return writeErr(err, "remove directory", dir)
		}
	}

	d.created.Add(d.root)
	return nil
}

// Write stores data at rel (slash separated) under the root, creating
// parent directories on demand.
func (d *Dir) Write(rel string, data []byte) error {
	full, err := d.resolve(rel)
	if err != nil {
		return err
	}
	if err := d.mkdir(filepath.Dir(full)); err != nil {
		return err
	}
	// #nosec G306 -- generated site pages are meant to be world readable.
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return writeErr(err, "write page", full)
	}
	return nil
}

// resolve joins rel onto the root and rejects paths escaping it.
func (d *Dir) resolve(rel string) (string, error) {
	if rel == "" {
		return "", writeErr(errors.New("output path is required"), "resolve output path", rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", writeErr(errors.New("output path escapes destination"), "resolve output path", rel)
	}
	return filepath.Join(d.root, clean), nil
}

func (d *Dir) mkdir(dir string) error {
	if d.created.Has(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeErr(err, "create directory", dir)
	}
	d.created.Add(dir)
	return nil
}

func depth(p string) int {
	return strings.Count(p, string(filepath.Separator))
}

func writeErr(cause error, message, path string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrWrite, cause), ferrors.CategoryWrite, message).
		Fatal().
		WithContext("path", path).
		Build()
}
