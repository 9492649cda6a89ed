package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/featurebrowser/internal/build"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	OutputDir string `name:"output-dir" short:"o" help:"Override the configured output directory"`
	Strict    bool   `help:"Fail when any document is skipped, overwritten or links are broken"`
	Report    string `name:"report" help:"Write a JSON build report to this path" placeholder:"FILE"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	report, runErr := build.Run(global.ctx(), cfg, build.Options{
		OutputDir: g.OutputDir,
		Strict:    g.Strict,
	})
	if report == nil {
		return runErr
	}

	if g.Report != "" {
		if err := report.WriteJSON(g.Report); err != nil {
			slog.Error("Failed to write build report", logfields.Path(g.Report), logfields.Error(err))
			runErr = errors.Join(runErr, err)
		}
	}

	out := global.out()
	if runErr != nil {
		_, _ = fmt.Fprintf(out, "Generation failed: %s\n", report.Summary())
		return runErr
	}
	_, _ = fmt.Fprintf(out, "Generated %d pages in %s\n", report.PagesWritten(), report.Output)
	_, _ = fmt.Fprintln(out, report.Summary())
	return nil
}
