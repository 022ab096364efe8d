package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

func newShowCmd(flags *GlobalFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single task",
		Long: `Show a task's full record: front-matter fields in their stored order,
followed by the markdown body. On a terminal the body is rendered;
--raw prints it verbatim.

Examples:
  taskmd show 3
  taskmd show 3 --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runShow(cmd.Context(), flags, id, raw, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the body verbatim without rendering")
	return cmd
}

func runShow(ctx context.Context, flags *GlobalFlags, id int, raw bool, w io.Writer) error {
	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	task, err := e.store.Get(ctx, id)
	if err != nil {
		return err
	}

	header, err := yaml.Marshal(task.Fields())
	if err != nil {
		return taskmderrors.Wrap(err, "failed to render task header")
	}
	if _, err := w.Write(header); err != nil {
		return err
	}

	if task.Content == "" {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	body := task.Content
	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		if rendered, rerr := renderMarkdown(body); rerr == nil {
			body = rendered
		}
	}
	_, err = io.WriteString(w, body)
	return err
}

// renderMarkdown pretty-prints a markdown body for terminal display.
func renderMarkdown(body string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(body)
}

// parseID parses a task id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("task id %q must be a positive integer: %w", arg, taskmderrors.ErrValidation)
	}
	return id, nil
}
