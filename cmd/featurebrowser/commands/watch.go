package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/featurebrowser/internal/build"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
	"git.home.luguber.info/inful/featurebrowser/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	OutputDir string        `name:"output-dir" short:"o" help:"Override the configured output directory"`
	Debounce  time.Duration `help:"Quiet period after a change before rebuilding (overrides watch.debounce)"`
	Interval  time.Duration `help:"Also rebuild on this fixed interval (overrides watch.interval)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	debounce := cfg.Watch.Debounce
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	interval := cfg.Watch.Interval
	if w.Interval > 0 {
		interval = w.Interval
	}

	featuresRoot, err := filepath.Abs(cfg.FeaturesDirectory)
	if err != nil {
		return err
	}
	output := cfg.OutputDirectory
	if w.OutputDir != "" {
		output = w.OutputDir
	}

	rebuild := func(ctx context.Context) error {
		report, err := build.Run(ctx, cfg, build.Options{OutputDir: w.OutputDir})
		if err != nil {
			return err
		}
		slog.Info("Site regenerated", logfields.Summary(report.Summary()))
		return nil
	}

	slog.Debug("Watch settings", logfields.Debounce(debounce), logfields.Interval(interval))
	return watch.New(featuresRoot, debounce, interval, rebuild).Ignore(output).Run(global.ctx())
}
