// Package discovery enumerates candidate feature files under a root directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
)

// ErrDiscovery indicates the documents root cannot be enumerated.
var ErrDiscovery = errors.New("documents root not enumerable")

// Candidate is one file offered for parsing. Err is set when the file was
// matched but could not be read; Content is nil in that case.
type Candidate struct {
	Path    string // absolute path
	Rel     string // slash separated path relative to the root
	Content []byte
	Err     error
}

// Source walks a documents root in lexical order.
type Source struct {
	root    string
	include string
	exclude []string
}

// NewSource creates a Source yielding files under root whose name ends in
// extension. exclude holds doublestar patterns matched against the slash
// separated relative path.
func NewSource(root, extension string, exclude []string) *Source {
	return &Source{
		root:    filepath.Clean(root),
		include: "**/*" + extension,
		exclude: exclude,
	}
}

// Root returns the cleaned root directory.
func (s *Source) Root() string { return s.root }

// Validate checks the exclude patterns.
func (s *Source) Validate() error {
	for _, p := range s.exclude {
		if !doublestar.ValidatePattern(p) {
			return ferrors.ValidationError("invalid exclude pattern").WithContext("pattern", p).Build()
		}
	}
	return nil
}

// Walk calls fn for every matching regular file. Hidden directories and
// files are skipped. A non-nil error from fn stops the walk and is returned.
// Files are read one at a time, right before fn is called.
func (s *Source) Walk(ctx context.Context, fn func(Candidate) error) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return s.rootErr(err)
	}
	if !info.IsDir() {
		return s.rootErr(fmt.Errorf("%s is not a directory", s.root))
	}

	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == s.root {
				return s.rootErr(walkErr)
			}
			// Unreadable subdirectory: log it and carry on.
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == s.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.excluded(rel) {
				slog.Debug("Excluded directory", logfields.Directory(rel))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.matches(rel) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			readErr = ferrors.WrapError(readErr, ferrors.CategoryDiscovery, "read feature file").
				Warning().
				WithContext("path", path).
				Build()
			content = nil
		}
		return fn(Candidate{Path: path, Rel: rel, Content: content, Err: readErr})
	})
}

func (s *Source) matches(rel string) bool {
	ok, err := doublestar.Match(s.include, rel)
	if err != nil || !ok {
		return false
	}
	return !s.excluded(rel)
}

func (s *Source) excluded(rel string) bool {
	for _, p := range s.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Source) rootErr(cause error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, cause), ferrors.CategoryDiscovery, "enumerate documents root").
		Fatal().
		WithContext("path", s.root).
		Build()
}
