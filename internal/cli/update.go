package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskmd/internal/domain"
	"github.com/mrz1836/taskmd/internal/frontmatter"
	"github.com/mrz1836/taskmd/internal/store"
)

// updateOptions holds the update command's flag values.
type updateOptions struct {
	title   string
	status  string
	tags    []string
	deps    []int
	content string
	fields  []string
}

func newUpdateCmd(flags *GlobalFlags) *cobra.Command {
	opts := &updateOptions{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a task",
		Long: `Apply a partial update to a task. Only flags that are set change the
record; everything else, caller-defined fields included, is preserved
unchanged. A title change renames the task file.

Examples:
  taskmd update 3 --status done
  taskmd update 3 --title "New title" --tags a,b
  taskmd update 3 --field owner=alex --field prio=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runUpdate(cmd.Context(), flags, cmd, opts, id, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "new title")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "new status (pending|in-progress|done)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tags", "t", nil, "replace the tag list")
	cmd.Flags().IntSliceVarP(&opts.deps, "depends-on", "d", nil, "replace the dependency list")
	cmd.Flags().StringVarP(&opts.content, "content", "c", "", "replace the markdown body")
	cmd.Flags().StringArrayVarP(&opts.fields, "field", "f", nil, "set a custom field as key=value (repeatable)")

	return cmd
}

func runUpdate(ctx context.Context, flags *GlobalFlags, cmd *cobra.Command, opts *updateOptions, id int, w io.Writer) error {
	update, err := buildUpdate(cmd, opts)
	if err != nil {
		return err
	}

	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	task, err := e.store.ApplyUpdate(ctx, id, update)
	if err != nil {
		return err
	}

	logger := Logger()
	logger.Info().Int("id", task.ID).Msg("task updated")
	_, err = fmt.Fprintf(w, "Updated task %d: %s\n", task.ID, task.Title)
	return err
}

// buildUpdate translates changed flags into a partial update. Flags
// that were not set on the command line are omitted so the stored
// values survive.
func buildUpdate(cmd *cobra.Command, opts *updateOptions) (*store.Update, error) {
	fields := frontmatter.New()
	if cmd.Flags().Changed("title") {
		fields.Set(domain.FieldTitle, opts.title)
	}
	if cmd.Flags().Changed("status") {
		fields.Set(domain.FieldStatus, opts.status)
	}
	if cmd.Flags().Changed("tags") {
		fields.Set(domain.FieldTags, opts.tags)
	}
	if cmd.Flags().Changed("depends-on") {
		fields.Set(domain.FieldDependencies, opts.deps)
	}

	custom, err := parseFieldFlags(opts.fields)
	if err != nil {
		return nil, err
	}
	for _, key := range custom.Keys() {
		v, _ := custom.Get(key)
		fields.Set(key, v)
	}

	update := &store.Update{Fields: fields}
	if cmd.Flags().Changed("content") {
		content := opts.content
		update.Content = &content
	}
	return update, nil
}
