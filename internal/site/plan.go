package site

import "git.home.luguber.info/inful/featurebrowser/internal/index"

// PlannedPage pairs a page with the view model its renderer receives.
type PlannedPage struct {
	Page    Page
	Payload any
}

// Plan lists every page of the site in emission order: the base page, then
// per directory its index followed by its features, then one page per tag
// in Tag Frequency order.
func Plan(idx *index.Index, meta Meta) []PlannedPage {
	pages := make([]PlannedPage, 0, 1+len(idx.Directories)+idx.Len()+len(idx.Tags))

	base := Page{Kind: KindBase, Target: BaseTarget(meta.OutputExt)}
	pages = append(pages, PlannedPage{Page: base, Payload: BaseView{Meta: meta, Page: base, Index: idx}})

	for _, bucket := range idx.Directories {
		dirPage := Page{Kind: KindDirectory, Key: bucket.Dir, Target: DirectoryTarget(bucket.Dir, meta.OutputExt)}
		pages = append(pages, PlannedPage{Page: dirPage, Payload: DirectoryView{Meta: meta, Page: dirPage, Bucket: bucket}})

		for _, entry := range bucket.Entries {
			featurePage := Page{Kind: KindFeature, Key: entry.Identifier, Target: FeatureTarget(entry.Identifier)}
			pages = append(pages, PlannedPage{
				Page:    featurePage,
				Payload: FeatureView{Meta: meta, Page: featurePage, Dir: bucket.Dir, Entry: entry},
			})
		}
	}

	for _, tc := range idx.Tags {
		tagPage := Page{Kind: KindTag, Key: tc.Tag, Target: TagTarget(tc.Tag, meta.OutputExt)}
		view := TagView{Meta: meta, Page: tagPage, Tag: tc.Tag, Count: tc.Count}
		if rec := idx.TagUsage(tc.Tag); rec != nil {
			for _, id := range rec.DocumentIdentifiers() {
				if doc, ok := idx.Document(id); ok {
					view.Documents = append(view.Documents, index.Feature{Identifier: id, Document: doc})
				}
			}
			view.Scenarios = rec.Scenarios
		}
		pages = append(pages, PlannedPage{Page: tagPage, Payload: view})
	}

	return pages
}
