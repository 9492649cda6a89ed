// Package index builds the derived indices of a run: the Feature Registry,
// the Tag Index with its Tag Frequency table, and the Directory Tree.
//
// A Builder is owned by exactly one run. It performs no I/O; the finalized
// Index is handed read-only to page emission.
package index

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	"git.home.luguber.info/inful/featurebrowser/internal/paths"
	"git.home.luguber.info/inful/featurebrowser/internal/util/sets"
)

// Builder accumulates documents and produces an Index.
//
// Key collisions follow a last-write-wins policy: a later document with an
// identifier already in the registry replaces the earlier one in the
// Feature Registry and the Directory Tree, and the replacement is recorded
// as a Collision. Tag contributions of the replaced document are kept.
type Builder struct {
	registry   map[string]*feature.Document
	order      []string
	dirs       map[string]map[string]Entry
	tagRaw     []string
	usage      map[string]*UsageRecord
	collisions []Collision

	folder        cases.Caser
	folded        map[string]string
	conflict      map[string]*CaseConflict
	conflictOrder []string

	finalized *Index
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	b := &Builder{folder: cases.Fold()}
	b.Reset()
	return b
}

// Reset clears all indices to the empty state.
func (b *Builder) Reset() {
	b.registry = make(map[string]*feature.Document)
	b.order = nil
	b.dirs = make(map[string]map[string]Entry)
	b.tagRaw = nil
	b.usage = make(map[string]*UsageRecord)
	b.collisions = nil
	b.folded = make(map[string]string)
	b.conflict = make(map[string]*CaseConflict)
	b.conflictOrder = nil
	b.finalized = nil
}

// ErrInvalidEntry is returned by Ingest for a nil document or an empty identifier.
var ErrInvalidEntry = errors.New("invalid index entry")

// Ingest records one successfully parsed document into every index.
func (b *Builder) Ingest(doc *feature.Document, loc paths.Location) error {
	if doc == nil || loc.Identifier == "" || loc.Filename == "" {
		return ErrInvalidEntry
	}
	b.finalized = nil

	if prev, exists := b.registry[loc.Identifier]; exists {
		b.collisions = append(b.collisions, Collision{
			Identifier: loc.Identifier,
			Previous:   prev.SourcePath,
			Current:    doc.SourcePath,
		})
	} else {
		b.order = append(b.order, loc.Identifier)
		b.trackFolded(loc.Identifier)
	}
	b.registry[loc.Identifier] = doc

	bucket, ok := b.dirs[loc.RelativeDir]
	if !ok {
		bucket = make(map[string]Entry)
		b.dirs[loc.RelativeDir] = bucket
	}
	bucket[loc.Filename] = Entry{Filename: loc.Filename, Identifier: loc.Identifier, Document: doc}

	for _, tag := range doc.Tags {
		b.tagRaw = append(b.tagRaw, tag)
		b.record(tag).Documents.Add(loc.Identifier)
	}

	for i := range doc.Scenarios {
		sc := &doc.Scenarios[i]
		for _, tag := range sc.Tags {
			b.tagRaw = append(b.tagRaw, tag)
			rec := b.record(tag)
			rec.Scenarios = append(rec.Scenarios, ScenarioUsage{
				Identifier: loc.Identifier,
				Document:   doc,
				Scenario:   sc,
			})
		}
	}
	return nil
}

func (b *Builder) record(tag string) *UsageRecord {
	rec, ok := b.usage[tag]
	if !ok {
		rec = newUsageRecord()
		b.usage[tag] = rec
	}
	return rec
}

// trackFolded notes identifiers that only differ by case.
func (b *Builder) trackFolded(identifier string) {
	key := b.folder.String(identifier)
	first, ok := b.folded[key]
	if !ok {
		b.folded[key] = identifier
		return
	}
	c, ok := b.conflict[key]
	if !ok {
		c = &CaseConflict{Identifiers: []string{first}}
		b.conflict[key] = c
		b.conflictOrder = append(b.conflictOrder, key)
	}
	c.Identifiers = append(c.Identifiers, identifier)
}

// Finalize sorts and aggregates the accumulated state. Calling it again
// without an intervening Ingest returns the same Index.
func (b *Builder) Finalize() *Index {
	if b.finalized != nil {
		return b.finalized
	}

	idx := &Index{
		Features:    make([]Feature, 0, len(b.order)),
		Directories: b.sortedDirectories(),
		Tags:        b.tagFrequency(),
		Usage:       make(map[string]*UsageRecord, len(b.usage)),
		Collisions:  slices.Clone(b.collisions),
		byID:        make(map[string]*feature.Document, len(b.registry)),
	}
	for _, id := range b.order {
		doc := b.registry[id]
		idx.Features = append(idx.Features, Feature{Identifier: id, Document: doc})
		idx.byID[id] = doc
	}
	for tag, rec := range b.usage {
		idx.Usage[tag] = &UsageRecord{
			Documents: sets.NewOrdered(rec.Documents.Items()...),
			Scenarios: slices.Clone(rec.Scenarios),
		}
	}
	for _, key := range b.conflictOrder {
		idx.CaseConflicts = append(idx.CaseConflicts, CaseConflict{Identifiers: slices.Clone(b.conflict[key].Identifiers)})
	}

	b.finalized = idx
	return idx
}

// sortedDirectories orders buckets by directory path and entries by
// filename, both byte-wise ascending.
func (b *Builder) sortedDirectories() []DirectoryBucket {
	dirs := slices.Sorted(maps.Keys(b.dirs))
	out := make([]DirectoryBucket, 0, len(dirs))
	for _, dir := range dirs {
		bucket := b.dirs[dir]
		entries := make([]Entry, 0, len(bucket))
		for _, name := range slices.Sorted(maps.Keys(bucket)) {
			entries = append(entries, bucket[name])
		}
		out = append(out, DirectoryBucket{Dir: dir, Entries: entries})
	}
	return out
}

// tagFrequency collapses the raw tag list into counts sorted by descending
// count; equal counts keep first-occurrence order.
func (b *Builder) tagFrequency() []TagCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, tag := range b.tagRaw {
		if _, seen := counts[tag]; !seen {
			order = append(order, tag)
		}
		counts[tag]++
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	slices.SortStableFunc(out, func(x, y TagCount) int {
		return cmp.Compare(y.Count, x.Count)
	})
	return out
}
