// Package render turns site pages into HTML using embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/featurebrowser/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/style.css
var styleCSS []byte

// StylesheetPath is the site-relative location of the bundled stylesheet.
const StylesheetPath = "assets/style.css"

var pageTemplates = map[site.PageKind]string{
	site.KindBase:      "templates/base.html",
	site.KindDirectory: "templates/directory.html",
	site.KindFeature:   "templates/feature.html",
	site.KindTag:       "templates/tag.html",
}

// HTML renders pages with html/template. Descriptions are treated as
// Markdown; raw HTML inside them is escaped.
type HTML struct {
	pages map[site.PageKind]*template.Template
	md    goldmark.Markdown
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	h := &HTML{
		pages: make(map[site.PageKind]*template.Template, len(pageTemplates)),
		md:    goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}

	funcs := template.FuncMap{
		"markdown": h.markdown,
		"dirLabel": dirLabel,
		"inc":      func(i int) int { return i + 1 },
	}

	for kind, file := range pageTemplates {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		h.pages[kind] = tpl
	}
	return h, nil
}

// pageData is what every template receives.
type pageData struct {
	site.Meta
	Page site.Page
	View any
	Link Linker
}

// Render executes the template of page.Kind with payload.
func (h *HTML) Render(page site.Page, payload any) ([]byte, error) {
	tpl, ok := h.pages[page.Kind]
	if !ok {
		return nil, fmt.Errorf("no template for page kind %q", page.Kind)
	}

	meta, err := metaOf(payload)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Meta: meta,
		Page: page,
		View: payload,
		Link: Linker{page: page, ext: meta.OutputExt},
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("render %s page %s: %w", page.Kind, page.Target, err)
	}
	return buf.Bytes(), nil
}

// Assets returns the static files shipped with every site.
func (h *HTML) Assets() map[string][]byte {
	return map[string][]byte{StylesheetPath: styleCSS}
}

func (h *HTML) markdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// goldmark escapes raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil //nolint:gosec // sanitized by goldmark
}

func metaOf(payload any) (site.Meta, error) {
	switch v := payload.(type) {
	case site.BaseView:
		return v.Meta, nil
	case site.DirectoryView:
		return v.Meta, nil
	case site.FeatureView:
		return v.Meta, nil
	case site.TagView:
		return v.Meta, nil
	default:
		return site.Meta{}, fmt.Errorf("unsupported payload %T", payload)
	}
}

func dirLabel(dir string) string {
	if dir == "" {
		return "/"
	}
	return dir
}

// Linker builds links relative to the page being rendered, so the generated
// site works from any location, including file://.
type Linker struct {
	page site.Page
	ext  string
}

func (l Linker) rel(target string) string {
	return l.page.RootPrefix() + escapePath(target)
}

// escapePath escapes each segment of a slash separated target so tags and
// directory names containing '#' or '?' stay part of the path.
func escapePath(target string) string {
	segments := strings.Split(target, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Home links to the base page.
func (l Linker) Home() string { return l.rel(site.BaseTarget(l.ext)) }

// Directory links to the index page of dir.
func (l Linker) Directory(dir string) string { return l.rel(site.DirectoryTarget(dir, l.ext)) }

// Feature links to the page of identifier.
func (l Linker) Feature(identifier string) string { return l.rel(site.FeatureTarget(identifier)) }

// Tag links to the page of tag.
func (l Linker) Tag(tag string) string { return l.rel(site.TagTarget(tag, l.ext)) }

// Stylesheet links to the bundled stylesheet.
func (l Linker) Stylesheet() string { return l.rel(StylesheetPath) }

// Canonical returns the absolute URL of the page when a base URL is configured.
func (l Linker) Canonical(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + escapePath(path.Clean(l.page.Target))
}
