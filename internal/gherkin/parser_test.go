package gherkin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

const checkoutFeature = `@smoke @checkout
Feature: Checkout
  As a shopper
  I want to pay for my cart

  Background:
    Given a cart with 2 items

  @slow
  Scenario: Pay by card
    When I pay with "visa"
    Then I receive a receipt

  Scenario Outline: Pay with <method>
    When I pay with "<method>"
    Then the total is <total>

    Examples:
      | method | total |
      | cash   | 10    |
      | card   | 11    |

  @refunds
  Rule: Refunds
    @slow
    Scenario: Refund a payment
      Given a paid order
      When I request a refund
        """
        reason: damaged
        """
      Then the refund is created
        | status  |
        | pending |
`

func TestParse_Feature(t *testing.T) {
	doc, err := NewParser().Parse("/features/checkout.feature", []byte(checkoutFeature))
	require.NoError(t, err)

	assert.Equal(t, "/features/checkout.feature", doc.SourcePath)
	assert.Equal(t, "Checkout", doc.Title)
	assert.Equal(t, "Feature", doc.Keyword)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, "As a shopper\nI want to pay for my cart", doc.Description)
	assert.Equal(t, []string{"@smoke", "@checkout"}, doc.Tags)

	require.NotNil(t, doc.Background)
	require.Len(t, doc.Background.Steps, 1)
	assert.Equal(t, "a cart with 2 items", doc.Background.Steps[0].Text)

	require.Len(t, doc.Scenarios, 3)

	card := doc.Scenarios[0]
	assert.Equal(t, "Pay by card", card.Name)
	assert.Equal(t, []string{"@slow"}, card.Tags)
	assert.Len(t, card.Steps, 2)
	assert.Positive(t, card.Line)

	outline := doc.Scenarios[1]
	assert.True(t, outline.IsOutline())
	require.Len(t, outline.Examples, 1)
	assert.Equal(t, []string{"method", "total"}, outline.Examples[0].Header)
	assert.Equal(t, [][]string{{"cash", "10"}, {"card", "11"}}, outline.Examples[0].Rows)

	refund := doc.Scenarios[2]
	assert.Equal(t, "Refunds", refund.Rule)
	assert.Equal(t, []string{"@refunds", "@slow"}, refund.Tags)
	require.Len(t, refund.Steps, 3)
	assert.Equal(t, "reason: damaged", refund.Steps[1].DocString)
	assert.Equal(t, [][]string{{"status"}, {"pending"}}, refund.Steps[2].Table)
}

func TestParse_InvalidDocument(t *testing.T) {
	_, err := NewParser().Parse("/features/broken.feature", []byte("Scenario: orphan\n  Given x\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryParse))
	assert.False(t, ferrors.HasSeverity(err, ferrors.SeverityFatal))
}

func TestParse_NoFeature(t *testing.T) {
	for name, content := range map[string]string{
		"empty":         "",
		"comments only": "# just a comment\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().Parse("/features/empty.feature", []byte(content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoFeature)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParse_LanguageHeader(t *testing.T) {
	src := "# language: fr\nFonctionnalité: Panier\n  Scénario: Ajouter\n    Soit un panier vide\n"
	doc, err := NewParser().Parse("/features/panier.feature", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "fr", doc.Language)
	assert.Equal(t, "Panier", doc.Title)
	require.Len(t, doc.Scenarios, 1)
	assert.Equal(t, "Ajouter", doc.Scenarios[0].Name)
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{"@a"}, mergeTags(nil, []string{"@a"}))
	assert.Equal(t, []string{"@r", "@a"}, mergeTags([]string{"@r"}, []string{"@a", "@r"}))
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "line one\n  nested\nline two", dedent("    line one\n      nested\n    line two\n"))
	assert.Equal(t, "", dedent("   \n  "))
	assert.Equal(t, "flat", dedent("flat"))
}
