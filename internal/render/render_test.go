package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	"git.home.luguber.info/inful/featurebrowser/internal/index"
	"git.home.luguber.info/inful/featurebrowser/internal/paths"
	"git.home.luguber.info/inful/featurebrowser/internal/site"
)

func sampleIndex(t *testing.T) *index.Index {
	t.Helper()
	b := index.NewBuilder()
	checkout := &feature.Document{
		SourcePath:  "/features/shop/checkout.feature",
		Keyword:     "Feature",
		Title:       "Checkout",
		Description: "As a **shopper**\n\n<script>alert(1)</script>",
		Tags:        []string{"@smoke"},
		Background: &feature.Background{
			Keyword: "Background",
			Steps:   []feature.Step{{Keyword: "Given ", Text: "a cart"}},
		},
		Scenarios: []feature.Scenario{
			{
				Keyword: "Scenario Outline",
				Name:    "Pay with card",
				Rule:    "Payments",
				Tags:    []string{"@slow"},
				Steps: []feature.Step{
					{Keyword: "When ", Text: "I pay <amount>", DocString: "receipt body"},
					{Keyword: "Then ", Text: "totals are", Table: [][]string{{"net", "gross"}, {"10", "12"}}},
				},
				Examples: []feature.Examples{{Keyword: "Examples", Header: []string{"amount"}, Rows: [][]string{{"5"}}}},
			},
		},
	}
	root := &feature.Document{SourcePath: "/features/login.feature", Keyword: "Feature", Title: "Login"}
	require.NoError(t, b.Ingest(checkout, paths.Location{RelativeDir: "shop", Identifier: "shop/checkout.html", Filename: "checkout.html"}))
	require.NoError(t, b.Ingest(root, paths.Location{Identifier: "login.html", Filename: "login.html"}))
	return b.Finalize()
}

func renderAll(t *testing.T, meta site.Meta) map[string]string {
	t.Helper()
	h, err := NewHTML()
	require.NoError(t, err)

	out := make(map[string]string)
	for _, p := range site.Plan(sampleIndex(t), meta) {
		data, err := h.Render(p.Page, p.Payload)
		require.NoError(t, err, p.Page.Target)
		out[p.Page.Target] = string(data)
	}
	return out
}

func TestHTML_BasePage(t *testing.T) {
	pages := renderAll(t, site.Meta{ProjectName: "Shop", OutputExt: ".html"})
	base := pages["index.html"]

	assert.Contains(t, base, "<title>Overview | Shop</title>")
	assert.Contains(t, base, `href="assets/style.css"`)
	assert.Contains(t, base, "2 features, 1 scenarios, 2 tags")
	assert.Contains(t, base, `href="directories/shop/index.html"`)
	assert.Contains(t, base, `href="tags/@smoke.html"`)
	assert.Contains(t, base, `href="directories/shop/checkout.html">Checkout</a>`)
	assert.NotContains(t, base, `rel="canonical"`)
}

func TestHTML_RelativeLinksFollowDepth(t *testing.T) {
	pages := renderAll(t, site.Meta{ProjectName: "Shop", OutputExt: ".html"})

	dir := pages["directories/shop/index.html"]
	assert.Contains(t, dir, `href="../../assets/style.css"`)
	assert.Contains(t, dir, `href="../../directories/shop/checkout.html"`)
	assert.Contains(t, dir, `href="../../index.html"`)

	tag := pages["tags/@slow.html"]
	assert.Contains(t, tag, `href="../directories/shop/checkout.html">Pay with card</a>`)
	assert.Contains(t, tag, "Used 1 times")
}

func TestHTML_FeaturePage(t *testing.T) {
	pages := renderAll(t, site.Meta{ProjectName: "Shop", OutputExt: ".html"})
	page := pages["directories/shop/checkout.html"]

	assert.Contains(t, page, "<title>Checkout | Shop</title>")
	assert.Contains(t, page, "<strong>shopper</strong>")
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "Rule: Payments")
	assert.Contains(t, page, "I pay &lt;amount&gt;")
	assert.Contains(t, page, `<pre class="docstring">receipt body</pre>`)
	assert.Contains(t, page, "<td>gross</td>")
	assert.Contains(t, page, "<th>amount</th>")
	assert.Contains(t, page, `href="../../tags/@slow.html"`)
	assert.Contains(t, page, `href="../../directories/shop/index.html">shop</a>`)
}

func TestHTML_RootDirectoryLabel(t *testing.T) {
	pages := renderAll(t, site.Meta{ProjectName: "Shop", OutputExt: ".html"})
	assert.Contains(t, pages["directories/index.html"], "<h1>/</h1>")
}

func TestHTML_CanonicalWithBaseURL(t *testing.T) {
	pages := renderAll(t, site.Meta{ProjectName: "Shop", BaseURL: "https://docs.example.com/features/", OutputExt: ".html"})
	assert.Contains(t, pages["tags/@smoke.html"], `<link rel="canonical" href="https://docs.example.com/features/tags/@smoke.html">`)
}

func TestHTML_UnsupportedPayload(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	_, err = h.Render(site.Page{Kind: site.KindBase, Target: "index.html"}, "nope")
	require.Error(t, err)

	_, err = h.Render(site.Page{Kind: "bogus"}, site.BaseView{})
	require.Error(t, err)
}

func TestHTML_Assets(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)
	assets := h.Assets()
	require.Contains(t, assets, StylesheetPath)
	assert.NotEmpty(t, assets[StylesheetPath])
}

func TestLinker(t *testing.T) {
	l := Linker{page: site.Page{Target: "directories/a/b/c.html"}, ext: ".html"}
	assert.Equal(t, "../../../index.html", l.Home())
	assert.Equal(t, "../../../tags/@x.html", l.Tag("@x"))
	assert.Equal(t, "../../../directories/index.html", l.Directory(""))
	assert.Equal(t, "https://e.x/directories/a/b/c.html", l.Canonical("https://e.x"))
	assert.Empty(t, l.Canonical(""))
}

func TestLinker_EscapesSegments(t *testing.T) {
	l := Linker{page: site.Page{Target: "tags/@JIRA#12.html"}, ext: ".html"}
	assert.Equal(t, "../tags/@JIRA%2312.html", l.Tag("@JIRA#12"))
	assert.Equal(t, "../directories/b%3Fc/d.html", l.Feature("b?c/d.html"))
	assert.Equal(t, "../directories/b%3Fc/index.html", l.Directory("b?c"))
	assert.Equal(t, "../directories/with%20space/index.html", l.Directory("with space"))
	assert.Equal(t, "https://e.x/tags/@JIRA%2312.html", l.Canonical("https://e.x"))
}
