package index

import (
	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	"git.home.luguber.info/inful/featurebrowser/internal/util/sets"
)

// Feature is one Feature Registry entry.
type Feature struct {
	Identifier string
	Document   *feature.Document
}

// Entry is a document listed in a directory bucket.
type Entry struct {
	Filename   string
	Identifier string
	Document   *feature.Document
}

// DirectoryBucket holds the documents whose immediate parent is Dir.
// Entries are sorted by Filename once finalized.
type DirectoryBucket struct {
	Dir     string
	Entries []Entry
}

// TagCount is one row of the Tag Frequency table.
type TagCount struct {
	Tag   string
	Count int
}

// ScenarioUsage records a scenario tagged at scenario level.
type ScenarioUsage struct {
	Identifier string
	Document   *feature.Document
	Scenario   *feature.Scenario
}

// UsageRecord is the Tag Index value for one tag: the documents tagged
// directly and the scenarios tagged individually.
type UsageRecord struct {
	Documents *sets.Ordered[string]
	Scenarios []ScenarioUsage
}

func newUsageRecord() *UsageRecord {
	return &UsageRecord{Documents: sets.NewOrdered[string]()}
}

// DocumentIdentifiers returns the identifiers of directly tagged documents in first-tagged order.
func (u *UsageRecord) DocumentIdentifiers() []string {
	if u == nil {
		return nil
	}
	return u.Documents.Items()
}

// Collision records a last-write-wins overwrite of an existing identifier.
type Collision struct {
	Identifier string `json:"identifier"`
	Previous   string `json:"previous"` // source path of the replaced document
	Current    string `json:"current"`  // source path of the document that replaced it
}

// CaseConflict records two distinct identifiers that are equal under case
// folding. Both are kept; on a case-insensitive destination one page will
// shadow the other.
type CaseConflict struct {
	Identifiers []string `json:"identifiers"`
}
