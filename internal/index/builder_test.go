package index

import (
	"fmt"
	"math/rand"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	"git.home.luguber.info/inful/featurebrowser/internal/paths"
)

func loc(identifier string) paths.Location {
	dir := path.Dir(identifier)
	if dir == "." {
		dir = ""
	}
	return paths.Location{RelativeDir: dir, Identifier: identifier, Filename: path.Base(identifier)}
}

func doc(source string, tags ...string) *feature.Document {
	return &feature.Document{SourcePath: source, Title: source, Tags: tags}
}

func ingest(t *testing.T, b *Builder, identifier string, d *feature.Document) {
	t.Helper()
	require.NoError(t, b.Ingest(d, loc(identifier)))
}

func TestBuilder_ReferenceScenario(t *testing.T) {
	a := doc("/features/a.feature", "@smoke")
	bdoc := doc("/features/sub/b.feature", "@smoke")
	bdoc.Scenarios = []feature.Scenario{{Name: "slow one", Tags: []string{"@slow"}}}

	b := NewBuilder()
	ingest(t, b, "a.html", a)
	ingest(t, b, "sub/b.html", bdoc)
	idx := b.Finalize()

	assert.Equal(t, []Feature{{Identifier: "a.html", Document: a}, {Identifier: "sub/b.html", Document: bdoc}}, idx.Features)
	assert.Equal(t, []DirectoryBucket{
		{Dir: "", Entries: []Entry{{Filename: "a.html", Identifier: "a.html", Document: a}}},
		{Dir: "sub", Entries: []Entry{{Filename: "b.html", Identifier: "sub/b.html", Document: bdoc}}},
	}, idx.Directories)
	assert.Equal(t, []TagCount{{Tag: "@smoke", Count: 2}, {Tag: "@slow", Count: 1}}, idx.Tags)

	smoke := idx.TagUsage("@smoke")
	require.NotNil(t, smoke)
	assert.Equal(t, []string{"a.html", "sub/b.html"}, smoke.DocumentIdentifiers())
	assert.Empty(t, smoke.Scenarios)

	slow := idx.TagUsage("@slow")
	require.NotNil(t, slow)
	assert.Empty(t, slow.DocumentIdentifiers())
	require.Len(t, slow.Scenarios, 1)
	assert.Equal(t, "sub/b.html", slow.Scenarios[0].Identifier)
	assert.Same(t, bdoc, slow.Scenarios[0].Document)
	assert.Same(t, &bdoc.Scenarios[0], slow.Scenarios[0].Scenario)

	assert.Empty(t, idx.Collisions)
	assert.Nil(t, idx.TagUsage("@missing"))
}

func TestBuilder_CountsMatchDistinctDocuments(t *testing.T) {
	b := NewBuilder()
	ids := []string{"z.html", "a/b.html", "a/a.html", "a/c/d.html", "m.html", "a/c/a.html"}
	for _, id := range ids {
		ingest(t, b, id, doc("/f/"+id))
	}
	idx := b.Finalize()

	assert.Equal(t, len(ids), idx.Len())
	total := 0
	for _, bucket := range idx.Directories {
		total += len(bucket.Entries)
	}
	assert.Equal(t, len(ids), total)

	var dirs []string
	for _, bucket := range idx.Directories {
		dirs = append(dirs, bucket.Dir)
	}
	assert.Equal(t, []string{"", "a", "a/c"}, dirs)
	assert.Equal(t, []string{"m.html", "z.html"}, filenames(idx.Directories[0]))
	assert.Equal(t, []string{"a.html", "b.html"}, filenames(idx.Directories[1]))
	assert.Equal(t, []string{"a.html", "d.html"}, filenames(idx.Directories[2]))

	// registry keeps discovery order
	var got []string
	for _, f := range idx.Features {
		got = append(got, f.Identifier)
	}
	assert.Equal(t, ids, got)
}

func TestBuilder_DirectoryOrderIsByteWise(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"b/x.html", "B/x.html", "a-b/x.html", "a/x.html", "a/Z.html", "a/z.html"} {
		ingest(t, b, id, doc(id))
	}
	idx := b.Finalize()

	var dirs []string
	for _, bucket := range idx.Directories {
		dirs = append(dirs, bucket.Dir)
	}
	assert.Equal(t, []string{"B", "a", "a-b", "b"}, dirs)
	assert.Equal(t, []string{"Z.html", "x.html", "z.html"}, filenames(idx.Directories[1]))
}

func TestBuilder_DocumentAndScenarioTagsBothCount(t *testing.T) {
	d := doc("/f/a.feature", "@t")
	d.Scenarios = []feature.Scenario{
		{Name: "one", Tags: []string{"@t"}},
		{Name: "two", Tags: []string{"@t", "@other"}},
		{Name: "three"},
	}

	b := NewBuilder()
	ingest(t, b, "a.html", d)
	idx := b.Finalize()

	assert.Equal(t, TagCount{Tag: "@t", Count: 3}, idx.Tags[0])
	assert.Equal(t, TagCount{Tag: "@other", Count: 1}, idx.Tags[1])

	rec := idx.TagUsage("@t")
	assert.Equal(t, []string{"a.html"}, rec.DocumentIdentifiers())
	require.Len(t, rec.Scenarios, 2)
	assert.Equal(t, "one", rec.Scenarios[0].Scenario.Name)
	assert.Equal(t, "two", rec.Scenarios[1].Scenario.Name)
}

func TestBuilder_TagFrequencyTiesKeepFirstOccurrence(t *testing.T) {
	b := NewBuilder()
	ingest(t, b, "1.html", doc("1", "@b", "@a"))
	ingest(t, b, "2.html", doc("2", "@c", "@a"))
	ingest(t, b, "3.html", doc("3", "@c", "@b"))
	ingest(t, b, "4.html", doc("4", "@d"))
	idx := b.Finalize()

	// @b, @a, @c all count 2; order is first appearance.
	assert.Equal(t, []TagCount{
		{Tag: "@b", Count: 2},
		{Tag: "@a", Count: 2},
		{Tag: "@c", Count: 2},
		{Tag: "@d", Count: 1},
	}, idx.Tags)
}

func TestBuilder_TagFrequencyStableUnderUnrelatedPermutations(t *testing.T) {
	// @first and @second tie; @first is always met first. Other documents
	// carrying unrelated tags are shuffled around them.
	others := make([]*feature.Document, 0, 6)
	for i := range 6 {
		others = append(others, doc(fmt.Sprintf("o%d", i), fmt.Sprintf("@u%d", i%3)))
	}

	rng := rand.New(rand.NewSource(7))
	for range 20 {
		rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

		b := NewBuilder()
		ingest(t, b, "p.html", doc("p", "@first", "@second"))
		for i, o := range others {
			ingest(t, b, fmt.Sprintf("o%d.html", i), o)
		}
		ingest(t, b, "q.html", doc("q", "@second", "@first"))
		idx := b.Finalize()

		pos := map[string]int{}
		for i, tc := range idx.Tags {
			pos[tc.Tag] = i
		}
		assert.Less(t, pos["@first"], pos["@second"])
	}
}

func TestBuilder_CollisionLastWriteWins(t *testing.T) {
	first := doc("/f/Login.feature", "@auth")
	second := doc("/f/login.feature", "@auth")

	b := NewBuilder()
	ingest(t, b, "login.html", first)
	ingest(t, b, "other.html", doc("/f/other.feature"))
	ingest(t, b, "login.html", second)
	idx := b.Finalize()

	require.Equal(t, 2, idx.Len())
	assert.Equal(t, "login.html", idx.Features[0].Identifier, "overwrite keeps original registry position")
	assert.Same(t, second, idx.Features[0].Document)

	got, ok := idx.Document("login.html")
	require.True(t, ok)
	assert.Same(t, second, got)

	require.Len(t, idx.Directories, 1)
	require.Len(t, idx.Directories[0].Entries, 2)
	assert.Same(t, second, idx.Directories[0].Entries[0].Document)

	assert.Equal(t, []Collision{{Identifier: "login.html", Previous: "/f/Login.feature", Current: "/f/login.feature"}}, idx.Collisions)

	// tag contributions of the replaced document are kept
	assert.Equal(t, []TagCount{{Tag: "@auth", Count: 2}}, idx.Tags)
	assert.Equal(t, []string{"login.html"}, idx.TagUsage("@auth").DocumentIdentifiers())
}

func TestBuilder_CaseConflicts(t *testing.T) {
	b := NewBuilder()
	ingest(t, b, "Login.html", doc("/f/Login.feature"))
	ingest(t, b, "login.html", doc("/f/login.feature"))
	ingest(t, b, "LOGIN.html", doc("/f/LOGIN.feature"))
	ingest(t, b, "logout.html", doc("/f/logout.feature"))
	idx := b.Finalize()

	assert.Equal(t, 4, idx.Len())
	assert.Empty(t, idx.Collisions)
	assert.Equal(t, []CaseConflict{{Identifiers: []string{"Login.html", "login.html", "LOGIN.html"}}}, idx.CaseConflicts)
}

func TestBuilder_FinalizeIdempotent(t *testing.T) {
	b := NewBuilder()
	ingest(t, b, "a.html", doc("a", "@x"))
	first := b.Finalize()
	second := b.Finalize()
	assert.Same(t, first, second)

	ingest(t, b, "b.html", doc("b", "@x"))
	third := b.Finalize()
	assert.NotSame(t, first, third)
	assert.Equal(t, 1, first.Len(), "earlier index is not mutated by later ingestion")
	assert.Equal(t, []string{"a.html"}, first.TagUsage("@x").DocumentIdentifiers())
	assert.Equal(t, 2, third.Len())
	assert.Equal(t, []TagCount{{Tag: "@x", Count: 2}}, third.Tags)
}

func TestBuilder_Reset(t *testing.T) {
	b := NewBuilder()
	ingest(t, b, "a.html", doc("a", "@x"))
	ingest(t, b, "a.html", doc("a2"))
	b.Reset()
	idx := b.Finalize()

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Directories)
	assert.Empty(t, idx.Tags)
	assert.Empty(t, idx.Usage)
	assert.Empty(t, idx.Collisions)
}

func TestBuilder_EmptyRun(t *testing.T) {
	idx := NewBuilder().Finalize()
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Features)
	assert.Empty(t, idx.Directories)
	assert.Empty(t, idx.Tags)
	assert.Equal(t, 0, idx.ScenarioCount())
}

func TestBuilder_IngestRejectsInvalidEntry(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.Ingest(nil, loc("a.html")), ErrInvalidEntry)
	assert.ErrorIs(t, b.Ingest(doc("a"), paths.Location{}), ErrInvalidEntry)
	assert.Equal(t, 0, b.Finalize().Len())
}

func filenames(bucket DirectoryBucket) []string {
	out := make([]string, 0, len(bucket.Entries))
	for _, e := range bucket.Entries {
		out = append(out, e.Filename)
	}
	return out
}
