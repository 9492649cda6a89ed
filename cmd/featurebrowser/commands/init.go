package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/featurebrowser/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
	Dist  bool `help:"Write featurebrowser.yml.dist instead of featurebrowser.yml"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	path := root.Config
	switch {
	case path != "":
	case i.Dist:
		path = config.DistFile
	default:
		path = config.DefaultFile
	}
	return RunInit(global.out(), path, i.Force)
}

func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
