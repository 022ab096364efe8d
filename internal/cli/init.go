package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskmd/internal/config"
	"github.com/mrz1836/taskmd/internal/workspace"
)

func newInitCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a task workspace in the current directory",
		Long: `Create the workspace metadata directory, write the default configuration,
and create the tasks directory. Fails if a workspace already exists here.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}
}

func runInit(flags *GlobalFlags) error {
	dir := flags.Dir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	ws, err := workspace.Init(dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ws.MetaDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ws.TasksDir(cfg), 0o750); err != nil {
		return err
	}

	logger := Logger()
	logger.Info().Str("root", ws.Root).Msg("workspace initialized")
	fmt.Printf("Initialized task workspace in %s\n", ws.Root)
	return nil
}
