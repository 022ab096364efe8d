package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/store"
)

// listOptions holds the shared filter flags for list-style commands.
type listOptions struct {
	status string
	tag    string
	search string
}

// register adds the filter flags to a command.
func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.status, "status", "s", "", "filter by status (pending|in-progress|done)")
	cmd.Flags().StringVarP(&o.tag, "tag", "t", "", "filter by tag")
	cmd.Flags().StringVar(&o.search, "search", "", "filter by substring in title or body")
}

// filter converts the flag values into a store filter.
func (o *listOptions) filter() store.Filter {
	return store.Filter{
		Status: constants.TaskStatus(o.status),
		Tag:    o.tag,
		Search: o.search,
	}
}

func newListCmd(flags *GlobalFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks ordered by ascending id.

Listing takes no lock and tolerates corruption: a file that fails to
parse as a valid task is skipped rather than failing the listing.

Examples:
  taskmd list
  taskmd list --status pending --tag urgent
  taskmd list --search "login"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), flags, opts, os.Stdout)
		},
	}

	opts.register(cmd)
	return cmd
}

func runList(ctx context.Context, flags *GlobalFlags, opts *listOptions, w io.Writer) error {
	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	tasks, err := e.store.List(ctx, opts.filter())
	if err != nil {
		return err
	}
	return renderTable(w, tasks)
}
