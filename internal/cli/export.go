package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

func newExportCmd(flags *GlobalFlags) *cobra.Command {
	opts := &listOptions{}
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks in a machine-readable format",
		Long: `Export tasks as table, csv, yaml, or ndjson. Structured formats carry
the full record, caller-defined fields included, in stored field order.

Examples:
  taskmd export --format ndjson
  taskmd export --format csv --out tasks.csv
  taskmd export --format yaml --status done`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), flags, opts, format, out)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "F", OutputNDJSON, "output format (table|csv|yaml|ndjson)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")

	return cmd
}

func runExport(ctx context.Context, flags *GlobalFlags, opts *listOptions, format, out string) error {
	if !IsValidOutputFormat(format) {
		return fmt.Errorf("%w: %q must be one of %v", taskmderrors.ErrInvalidOutputFormat, format, ValidOutputFormats())
	}

	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	tasks, err := e.store.List(ctx, opts.filter())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out) //#nosec G304 -- user-chosen export destination
		if err != nil {
			return fmt.Errorf("failed to create export file: %v: %w", err, taskmderrors.ErrFileSystem)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return renderTasks(w, tasks, format)
}
