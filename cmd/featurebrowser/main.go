package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/featurebrowser/cmd/featurebrowser/commands"
	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("featurebrowser"),
		kong.Description("Generates a browsable HTML site from Gherkin feature files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	global := &commands.Global{Context: ctx, Out: os.Stdout}
	if err := kctx.Run(global, cli); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err)
	}
	return 0
}
