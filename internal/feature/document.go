// Package feature defines the parsed form of a Gherkin feature file: a
// feature with its tags, background and scenarios.
//
// Values are produced once by the parser and treated as immutable afterwards;
// the indexer and the renderer only read them.
package feature

import "slices"

// Document is one parsed feature file.
type Document struct {
	SourcePath  string // absolute path of the source file
	Language    string
	Keyword     string // "Feature", "Business Need", ...
	Title       string
	Description string
	Tags        []string
	Background  *Background
	Scenarios   []Scenario
}

// Background holds steps shared by every scenario of a document.
type Background struct {
	Keyword     string
	Name        string
	Description string
	Steps       []Step
}

// Scenario is a single example nested in a Document. Scenarios declared
// inside a rule carry the rule name and inherit the rule's tags.
type Scenario struct {
	Keyword     string
	Name        string
	Description string
	Rule        string
	Line        int
	Tags        []string
	Steps       []Step
	Examples    []Examples
}

// Step is opaque to the indexer; it is kept for rendering only.
type Step struct {
	Keyword   string
	Text      string
	DocString string
	Table     [][]string
}

// Examples is a scenario outline table.
type Examples struct {
	Keyword string
	Name    string
	Tags    []string
	Header  []string
	Rows    [][]string
}

// HasTag reports whether the document itself carries tag.
func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// ScenarioCount returns the number of scenarios in the document.
func (d *Document) ScenarioCount() int {
	return len(d.Scenarios)
}

// StepCount returns the number of steps across the background and all scenarios.
func (d *Document) StepCount() int {
	n := 0
	if d.Background != nil {
		n += len(d.Background.Steps)
	}
	for i := range d.Scenarios {
		n += len(d.Scenarios[i].Steps)
	}
	return n
}

// HasTag reports whether the scenario carries tag.
func (s *Scenario) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// IsOutline reports whether the scenario is driven by example tables.
func (s *Scenario) IsOutline() bool {
	return len(s.Examples) > 0
}
