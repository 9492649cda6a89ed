// Package site plans and emits the pages of a generated feature browser
// from a finalized index.
package site

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/featurebrowser/internal/index"
)

// PageKind identifies the type of an output page.
type PageKind string

const (
	KindBase      PageKind = "base"
	KindDirectory PageKind = "directory"
	KindFeature   PageKind = "feature"
	KindTag       PageKind = "tag"
)

// Page is one planned output file.
type Page struct {
	Kind   PageKind
	Key    string // directory, identifier or tag; empty for the base page
	Target string // slash separated path under the destination
}

// RootPrefix returns the relative prefix leading from the page back to the site root.
func (p Page) RootPrefix() string {
	return strings.Repeat("../", strings.Count(p.Target, "/"))
}

// Meta is project-level information shared by every page.
type Meta struct {
	ProjectName string
	BaseURL     string
	OutputExt   string
}

// BaseTarget is the site index page.
func BaseTarget(ext string) string {
	return "index" + ext
}

// DirectoryTarget is the index page of a source directory ("" is the root).
func DirectoryTarget(dir, ext string) string {
	return path.Join("directories", dir, "index"+ext)
}

// FeatureTarget is the page of one document. The identifier already
// carries the relative directory, filename and output extension.
func FeatureTarget(identifier string) string {
	return path.Join("directories", identifier)
}

// TagTarget is the page listing usages of tag. Path separators inside a tag
// are replaced so every tag maps to a file directly under tags/.
func TagTarget(tag, ext string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(tag)
	return "tags/" + name + ext
}

// BaseView is the payload of the base index page.
type BaseView struct {
	Meta
	Page  Page
	Index *index.Index
}

// DirectoryView is the payload of a directory index page.
type DirectoryView struct {
	Meta
	Page   Page
	Bucket index.DirectoryBucket
}

// FeatureView is the payload of a feature page.
type FeatureView struct {
	Meta
	Page  Page
	Dir   string
	Entry index.Entry
}

// TagView is the payload of a tag page.
type TagView struct {
	Meta
	Page      Page
	Tag       string
	Count     int
	Documents []index.Feature
	Scenarios []index.ScenarioUsage
}
