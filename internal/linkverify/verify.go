package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
)

// BrokenLink is an internal link whose target file does not exist.
type BrokenLink struct {
	Page   string `json:"page"`   // slash separated, relative to the site root
	URL    string `json:"url"`    // as written in the page
	Target string `json:"target"` // resolved site-relative path, or the reason it could not be resolved
}

// Verifier checks every page with a given extension under a site root.
type Verifier struct {
	root    string
	ext     string
	baseURL string
}

// NewVerifier creates a Verifier. baseURL may be empty; when set, absolute
// links on the same host are resolved against its path.
func NewVerifier(root, pageExt, baseURL string) *Verifier {
	return &Verifier{root: filepath.Clean(root), ext: pageExt, baseURL: baseURL}
}

// Verify returns the broken links of the site in page walk order.
func (v *Verifier) Verify(ctx context.Context) ([]BrokenLink, error) {
	base, _ := url.Parse(v.baseURL)
	var broken []BrokenLink

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), v.ext) {
			return nil
		}

		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		page := filepath.ToSlash(rel)

		links, err := ExtractLinks(p, v.baseURL)
		if err != nil {
			slog.Warn("Skipping unparsable page", logfields.Path(page), logfields.Error(err))
			return nil
		}
		for _, link := range links {
			if !ShouldVerifyLink(link) {
				continue
			}
			target, ok := v.resolve(page, link.URL, base)
			if !ok || !v.exists(target) {
				broken = append(broken, BrokenLink{Page: page, URL: link.URL, Target: target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// resolve maps a link on page to a site-relative file path. It reports
// false when the link leaves the site.
func (v *Verifier) resolve(page, raw string, base *url.URL) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "unparsable url", false
	}
	p := u.Path
	if p == "" {
		return page, true
	}

	var target string
	switch {
	case u.Host != "":
		prefix := "/"
		if base != nil && base.Path != "" {
			prefix = strings.TrimRight(base.Path, "/") + "/"
		}
		if !strings.HasPrefix(p, prefix) {
			return p, false
		}
		target = strings.TrimPrefix(p, prefix)
	case strings.HasPrefix(p, "/"):
		target = strings.TrimPrefix(p, "/")
	default:
		target = path.Join(path.Dir(page), p)
	}

	target = path.Clean(target)
	if target == ".." || strings.HasPrefix(target, "../") {
		return target, false
	}
	if strings.HasSuffix(p, "/") || target == "." {
		target = path.Join(target, "index"+v.ext)
	}
	return target, true
}

func (v *Verifier) exists(target string) bool {
	info, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(target)))
	return err == nil && !info.IsDir()
}
