package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentCounts(t *testing.T) {
	doc := &Document{
		Title:      "Checkout",
		Tags:       []string{"@smoke"},
		Background: &Background{Steps: []Step{{Keyword: "Given ", Text: "a cart"}}},
		Scenarios: []Scenario{
			{Name: "pay", Tags: []string{"@slow"}, Steps: []Step{{Text: "pay"}, {Text: "receipt"}}},
			{Name: "cancel", Steps: []Step{{Text: "cancel"}}},
		},
	}

	assert.Equal(t, 2, doc.ScenarioCount())
	assert.Equal(t, 4, doc.StepCount())
	assert.True(t, doc.HasTag("@smoke"))
	assert.False(t, doc.HasTag("@slow"))
	assert.True(t, doc.Scenarios[0].HasTag("@slow"))
}

func TestScenarioIsOutline(t *testing.T) {
	plain := Scenario{Name: "plain"}
	outline := Scenario{Name: "outline", Examples: []Examples{{Header: []string{"a"}, Rows: [][]string{{"1"}}}}}

	assert.False(t, plain.IsOutline())
	assert.True(t, outline.IsOutline())
}
