package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/featurebrowser/internal/config"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
)

// Global carries process-wide state into commands.
type Global struct {
	Context context.Context
	Out     io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file (default: featurebrowser.yml, falling back to featurebrowser.yml.dist)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the feature browser site"`
	Discover DiscoverCmd `cmd:"" help:"List discovered feature files without writing output"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate the site whenever feature files change"`
}

// AfterApply runs after flag parsing; sets up logging until a configuration
// with its own logging settings is loaded.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration named by --config and switches the
// default logger to its logging settings.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, path, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, root.Verbose))
	slog.Debug("Using configuration", logfields.Path(path))
	return cfg, nil
}
