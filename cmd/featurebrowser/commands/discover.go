package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/featurebrowser/internal/build"
	"git.home.luguber.info/inful/featurebrowser/internal/index"
)

// DiscoverCmd implements the 'discover' command: it runs the indexing stages
// of a build and prints the directory tree instead of writing pages.
type DiscoverCmd struct {
	Tags bool `help:"Also print tag usage counts"`
}

func (d *DiscoverCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	idx, report, err := build.Index(global.ctx(), cfg, build.Options{})
	if err != nil {
		return err
	}

	featuresRoot, err := filepath.Abs(cfg.FeaturesDirectory)
	if err != nil {
		return err
	}
	skipped := make([]string, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		rel, err := filepath.Rel(featuresRoot, s.Path)
		if err != nil {
			rel = s.Path
		}
		skipped = append(skipped, fmt.Sprintf("%s: %s", filepath.ToSlash(rel), s.Reason))
	}

	_, _ = fmt.Fprint(global.out(), renderDiscovery(cfg.FeaturesDirectory, idx, skipped, d.Tags))
	return nil
}

func renderDiscovery(label string, idx *index.Index, skipped []string, withTags bool) string {
	tree := newVisualTree(fmt.Sprintf("%s (%d features, %d scenarios)", label, idx.Len(), idx.ScenarioCount()))
	for _, bucket := range idx.Directories {
		for _, e := range bucket.Entries {
			tree.add(bucket.Dir, fmt.Sprintf("%s [%s] (%s)",
				filepath.Base(e.Document.SourcePath), e.Document.Title, plural(e.Document.ScenarioCount(), "scenario")))
		}
	}
	if withTags && len(idx.Tags) > 0 {
		tags := tree.branch(fmt.Sprintf("tags (%d)", len(idx.Tags)))
		for _, tc := range idx.Tags {
			tags.Add(fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
		}
	}
	if len(skipped) > 0 {
		branch := tree.branch(fmt.Sprintf("skipped (%d)", len(skipped)))
		for _, s := range skipped {
			branch.Add(s)
		}
	}
	return tree.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
