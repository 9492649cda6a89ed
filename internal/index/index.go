package index

import "git.home.luguber.info/inful/featurebrowser/internal/feature"

// Index is the finalized, read-only result of a run's indexing.
type Index struct {
	// Features is the Feature Registry in discovery order.
	Features []Feature
	// Directories is the Directory Tree in ascending directory order.
	Directories []DirectoryBucket
	// Tags is the Tag Frequency table, most used first.
	Tags []TagCount
	// Usage is the Tag Index.
	Usage map[string]*UsageRecord

	Collisions    []Collision
	CaseConflicts []CaseConflict

	byID map[string]*feature.Document
}

// Document returns the registry entry for identifier.
func (i *Index) Document(identifier string) (*feature.Document, bool) {
	doc, ok := i.byID[identifier]
	return doc, ok
}

// Len returns the number of registered documents.
func (i *Index) Len() int {
	return len(i.Features)
}

// TagUsage returns the usage record of tag, or nil when the tag is unknown.
func (i *Index) TagUsage(tag string) *UsageRecord {
	return i.Usage[tag]
}

// ScenarioCount returns the number of scenarios across registered documents.
func (i *Index) ScenarioCount() int {
	n := 0
	for _, f := range i.Features {
		n += f.Document.ScenarioCount()
	}
	return n
}
