package build

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featurebrowser/internal/config"
	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

const checkoutFeature = `@smoke @shop
Feature: Checkout
  Shoppers pay for their cart.

  Background:
    Given a cart with 2 items

  @slow
  Scenario: Pay by card
    When I pay by card
    Then the order is confirmed

  Rule: Vouchers
    @vouchers
    Scenario Outline: Apply voucher
      When I apply <code>
      Then the total drops

      Examples:
        | code |
        | TEN  |
`

const loginFeature = `@smoke
Feature: Login
  Scenario: Good password
    Given a user
    When they log in
    Then they see the dashboard
`

func writeFeatures(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "features")
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func testConfig(t *testing.T, features string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		ProjectName:       "Shop",
		FeaturesDirectory: features,
		OutputDirectory:   filepath.Join(t.TempDir(), "site"),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestRun_GeneratesSite(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"shop/checkout.feature": checkoutFeature,
		"login.feature":         loginFeature,
		"README.md":             "not a feature",
	})
	cfg := testConfig(t, features)
	cfg.VerifyLinks = true

	report, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.BuildID)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 3, report.Scenarios)
	assert.Equal(t, 2, report.Directories)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.BrokenLinks, "generated site links resolve")

	// base + 2 directories + 2 features + tags (@smoke @shop @slow @vouchers)
	assert.Equal(t, 1, report.Pages["base"])
	assert.Equal(t, 2, report.Pages["directory"])
	assert.Equal(t, 2, report.Pages["feature"])
	assert.Equal(t, 4, report.Pages["tag"])
	assert.Equal(t, 4, report.Tags)

	for _, rel := range []string{
		"index.html",
		"assets/style.css",
		"directories/index.html",
		"directories/login.html",
		"directories/shop/index.html",
		"directories/shop/checkout.html",
		"tags/@smoke.html",
		"tags/@vouchers.html",
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDirectory, filepath.FromSlash(rel)))
	}

	for _, stage := range []StageName{StageDiscover, StageParse, StageIndex, StageEmit, StageVerify} {
		assert.Contains(t, report.StageDurations, stage)
	}
}

func TestRun_SkipsUnparsableDocuments(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"login.feature":  loginFeature,
		"empty.feature":  "",
		"broken.feature": "Scenario: orphan\n  Given x\n",
	})
	cfg := testConfig(t, features)

	report, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, filepath.Join(features, "broken.feature"), report.Skipped[0].Path)
	assert.Equal(t, StageParse, report.Skipped[0].Stage)
	assert.Contains(t, report.Skipped[1].Reason, "no feature")
	assert.NoFileExists(t, filepath.Join(cfg.OutputDirectory, "directories", "empty.html"))
}

func TestRun_StrictFailsBeforeWriting(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"login.feature": loginFeature,
		"empty.feature": "",
	})
	cfg := testConfig(t, features)

	report, err := Run(context.Background(), cfg, Options{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStrict)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NotNil(t, report)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.NoDirExists(t, cfg.OutputDirectory)
}

func TestRun_EmptyFeaturesDirectory(t *testing.T) {
	features := filepath.Join(t.TempDir(), "features")
	require.NoError(t, os.MkdirAll(features, 0o755))
	cfg := testConfig(t, features)

	report, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, 1, report.PagesWritten())
	assert.FileExists(t, filepath.Join(cfg.OutputDirectory, "index.html"))
}

func TestRun_MissingFeaturesDirectory(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent"))

	report, err := Run(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDiscovery))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.NoDirExists(t, cfg.OutputDirectory)
}

func TestRun_ClearsStaleOutput(t *testing.T) {
	features := writeFeatures(t, map[string]string{"login.feature": loginFeature})
	cfg := testConfig(t, features)
	stale := filepath.Join(cfg.OutputDirectory, "directories", "old.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRun_LinksSurviveReservedCharacters(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"ticket.feature": "@JIRA#12\nFeature: Ticket\n  Scenario: One\n    Given a\n",
		"b?c/d.feature":  loginFeature,
	})
	cfg := testConfig(t, features)
	cfg.VerifyLinks = true

	report, err := Run(context.Background(), cfg, Options{Strict: true})
	require.NoError(t, err)
	assert.Empty(t, report.BrokenLinks)
	assert.FileExists(t, filepath.Join(cfg.OutputDirectory, "tags", "@JIRA#12.html"))
	assert.FileExists(t, filepath.Join(cfg.OutputDirectory, "directories", "b?c", "d.html"))
}

func TestRun_OutputOverride(t *testing.T) {
	features := writeFeatures(t, map[string]string{"login.feature": loginFeature})
	cfg := testConfig(t, features)
	override := filepath.Join(t.TempDir(), "elsewhere")

	report, err := Run(context.Background(), cfg, Options{OutputDir: override})
	require.NoError(t, err)
	assert.Equal(t, override, report.Output)
	assert.FileExists(t, filepath.Join(override, "index.html"))
	assert.NoDirExists(t, cfg.OutputDirectory)
}

func TestRun_OverrideResolvesDirectoryOverlap(t *testing.T) {
	features := writeFeatures(t, map[string]string{"login.feature": loginFeature})
	cfg := testConfig(t, features)
	cfg.OutputDirectory = filepath.Dir(features)

	_, err := Run(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.FileExists(t, filepath.Join(features, "login.feature"))

	override := filepath.Join(t.TempDir(), "site")
	report, err := Run(context.Background(), cfg, Options{OutputDir: override})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
}

func TestIndex_DoesNotWrite(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"login.feature":         loginFeature,
		"shop/checkout.feature": checkoutFeature,
		"empty.feature":         "",
	})
	cfg := testConfig(t, features)

	idx, report, err := Index(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, report.Discovered)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, filepath.Join(features, "empty.feature"), report.Skipped[0].Path)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.NoDirExists(t, cfg.OutputDirectory)
	assert.NotContains(t, report.StageDurations, StageEmit)
}

func TestIndex_MissingFeaturesDirectory(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent"))

	idx, report, err := Index(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.Nil(t, idx)
	require.NotNil(t, report)
	assert.Equal(t, OutcomeFailed, report.Outcome)
}

func TestRun_MetricsFile(t *testing.T) {
	features := writeFeatures(t, map[string]string{"login.feature": loginFeature})
	cfg := testConfig(t, features)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "featurebrowser.prom")

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `featurebrowser_documents_total{result="indexed"} 1`)
	assert.Contains(t, string(data), `featurebrowser_build_outcomes_total{outcome="success"} 1`)
}

func TestReport_WriteJSON(t *testing.T) {
	features := writeFeatures(t, map[string]string{"login.feature": loginFeature})
	report, err := Run(context.Background(), testConfig(t, features), Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "build-report.json")
	require.NoError(t, report.WriteJSON(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outcome": "success"`)
	assert.Contains(t, report.Summary(), "documents=1")
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestRun_Idempotent(t *testing.T) {
	features := writeFeatures(t, map[string]string{
		"shop/checkout.feature": checkoutFeature,
		"login.feature":         loginFeature,
	})
	cfg := testConfig(t, features)

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	first := snapshot(t, cfg.OutputDirectory)

	_, err = Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, cfg.OutputDirectory))
}
