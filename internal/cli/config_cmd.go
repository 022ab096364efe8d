package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskmd/internal/config"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/workspace"
)

func newConfigCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the workspace configuration",
	}
	cmd.AddCommand(newConfigShowCmd(flags), newConfigSetCmd(flags), newConfigUnsetCmd(flags))
	return cmd
}

func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigShow(flags, os.Stdout)
		},
	}
}

func newConfigSetCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. The merged config is validated against the
strict schema and written atomically; unknown keys are rejected.

Examples:
  taskmd config set lockTimeoutMs 10000
  taskmd config set tasksDir work/tasks`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(flags, args[0], args[1], os.Stdout)
		},
	}
}

func newConfigUnsetCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value, reverting to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(flags, args[0], "", os.Stdout)
		},
	}
}

func runConfigShow(flags *GlobalFlags, w io.Writer) error {
	ws, err := workspace.Find(flags.Dir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(ws.MetaDir)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return taskmderrors.Wrap(err, "failed to render config")
	}
	_, err = w.Write(out)
	return err
}

func runConfigSet(flags *GlobalFlags, key, raw string, w io.Writer) error {
	ws, err := workspace.Find(flags.Dir)
	if err != nil {
		return err
	}

	var value any
	if raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
	}

	if _, err := config.Update(ws.MetaDir, map[string]any{key: value}); err != nil {
		return err
	}

	if value == nil {
		_, err = fmt.Fprintf(w, "Unset %s\n", key)
	} else {
		_, err = fmt.Fprintf(w, "Set %s = %v\n", key, value)
	}
	return err
}
