// Package gherkin adapts the cucumber Gherkin parser to the feature model.
//
// The grammar itself is not defined here: the upstream parser turns raw
// text into a GherkinDocument and this package maps it onto
// feature.Document, flattening rules into the scenario list.
package gherkin

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"

	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

// Parser converts raw document text into a structured Document.
type Parser interface {
	Parse(path string, content []byte) (*feature.Document, error)
}

// CucumberParser implements Parser on top of github.com/cucumber/gherkin.
type CucumberParser struct{}

// NewParser returns the default Gherkin parser.
func NewParser() *CucumberParser {
	return &CucumberParser{}
}

// Parse parses content read from path. path is used for the document's
// SourcePath and for error reporting only.
func (p *CucumberParser) Parse(path string, content []byte) (*feature.Document, error) {
	gd, err := gherkin.ParseGherkinDocument(bytes.NewReader(content), newIDGenerator())
	if err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrParse, err), ferrors.CategoryParse, "parse feature").
			Warning().
			WithContext("path", path).
			Build()
	}
	if gd.Feature == nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrParse, ErrNoFeature), ferrors.CategoryParse, "parse feature").
			Warning().
			WithContext("path", path).
			Build()
	}
	return convertFeature(path, gd.Feature), nil
}

// newIDGenerator returns a per-document incrementing id source.
func newIDGenerator() func() string {
	next := 0
	return func() string {
		id := strconv.Itoa(next)
		next++
		return id
	}
}

func convertFeature(path string, f *messages.Feature) *feature.Document {
	doc := &feature.Document{
		SourcePath:  path,
		Language:    f.Language,
		Keyword:     f.Keyword,
		Title:       strings.TrimSpace(f.Name),
		Description: dedent(f.Description),
		Tags:        tagNames(f.Tags),
	}
	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			if doc.Background == nil {
				doc.Background = convertBackground(child.Background)
			}
		case child.Scenario != nil:
			doc.Scenarios = append(doc.Scenarios, convertScenario(child.Scenario, "", nil))
		case child.Rule != nil:
			ruleTags := tagNames(child.Rule.Tags)
			for _, rc := range child.Rule.Children {
				if rc.Scenario != nil {
					doc.Scenarios = append(doc.Scenarios, convertScenario(rc.Scenario, strings.TrimSpace(child.Rule.Name), ruleTags))
				}
			}
		}
	}
	return doc
}

func convertBackground(b *messages.Background) *feature.Background {
	return &feature.Background{
		Keyword:     b.Keyword,
		Name:        strings.TrimSpace(b.Name),
		Description: dedent(b.Description),
		Steps:       convertSteps(b.Steps),
	}
}

func convertScenario(s *messages.Scenario, rule string, inherited []string) feature.Scenario {
	sc := feature.Scenario{
		Keyword:     s.Keyword,
		Name:        strings.TrimSpace(s.Name),
		Description: dedent(s.Description),
		Rule:        rule,
		Tags:        mergeTags(inherited, tagNames(s.Tags)),
		Steps:       convertSteps(s.Steps),
	}
	if s.Location != nil {
		sc.Line = int(s.Location.Line)
	}
	for _, ex := range s.Examples {
		sc.Examples = append(sc.Examples, convertExamples(ex))
	}
	return sc
}

func convertSteps(steps []*messages.Step) []feature.Step {
	out := make([]feature.Step, 0, len(steps))
	for _, st := range steps {
		step := feature.Step{
			Keyword: st.Keyword,
			Text:    st.Text,
		}
		if st.DocString != nil {
			step.DocString = st.DocString.Content
		}
		if st.DataTable != nil {
			for _, row := range st.DataTable.Rows {
				step.Table = append(step.Table, cellValues(row))
			}
		}
		out = append(out, step)
	}
	return out
}

func convertExamples(ex *messages.Examples) feature.Examples {
	out := feature.Examples{
		Keyword: ex.Keyword,
		Name:    strings.TrimSpace(ex.Name),
		Tags:    tagNames(ex.Tags),
	}
	if ex.TableHeader != nil {
		out.Header = cellValues(ex.TableHeader)
	}
	for _, row := range ex.TableBody {
		out.Rows = append(out.Rows, cellValues(row))
	}
	return out
}

func cellValues(row *messages.TableRow) []string {
	values := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		values = append(values, c.Value)
	}
	return values
}

func tagNames(tags []*messages.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// mergeTags appends own to inherited, dropping repeats so a tag declared on
// both a rule and its scenario counts once for that scenario.
func mergeTags(inherited, own []string) []string {
	if len(inherited) == 0 {
		return own
	}
	out := make([]string, 0, len(inherited)+len(own))
	seen := make(map[string]struct{}, len(inherited)+len(own))
	for _, list := range [][]string{inherited, own} {
		for _, t := range list {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// dedent strips the indentation common to all non-blank lines of a
// description block.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(s)
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
