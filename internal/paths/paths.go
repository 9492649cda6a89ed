// Package paths derives the canonical output identity of a source document
// from its location under the documents root.
package paths

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

// ErrPath indicates a source path does not lie under the configured root.
var ErrPath = errors.New("path outside documents root")

// Location is the normalized identity of one source document.
//
// Identifier is a pure function of the relative source path: separators
// become "/" and the trailing source extension is replaced by the output
// extension. Distinct relative paths never share an Identifier.
type Location struct {
	RelativeDir string // "" for the root directory itself
	Identifier  string // e.g. "sub/b.html"
	Filename    string // last segment of Identifier
}

// Normalizer maps absolute source paths to Locations.
type Normalizer struct {
	root      string
	sourceExt string
	outputExt string
}

// NewNormalizer creates a Normalizer for documents under root. root is
// cleaned but not resolved; callers pass the same form discovery uses.
func NewNormalizer(root, sourceExt, outputExt string) *Normalizer {
	return &Normalizer{
		root:      filepath.Clean(root),
		sourceExt: sourceExt,
		outputExt: outputExt,
	}
}

// Root returns the cleaned documents root.
func (n *Normalizer) Root() string { return n.root }

// Normalize derives the Location of source.
func (n *Normalizer) Normalize(source string) (Location, error) {
	rel, err := filepath.Rel(n.root, filepath.Clean(source))
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Location{}, ferrors.WrapError(fmt.Errorf("%w: %s", ErrPath, source), ferrors.CategoryPath, "normalize document path").
			Warning().
			WithContext("path", source).
			WithContext("root", n.root).
			Build()
	}

	slashed := filepath.ToSlash(rel)
	identifier := n.replaceExt(slashed)

	dir := path.Dir(slashed)
	if dir == "." {
		dir = ""
	}

	return Location{
		RelativeDir: dir,
		Identifier:  identifier,
		Filename:    path.Base(identifier),
	}, nil
}

// replaceExt swaps only the trailing source extension. A path that does not
// end in it keeps its name and gains the output extension.
func (n *Normalizer) replaceExt(p string) string {
	if n.sourceExt != "" && strings.HasSuffix(p, n.sourceExt) {
		return strings.TrimSuffix(p, n.sourceExt) + n.outputExt
	}
	return p + n.outputExt
}
