package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskmd/internal/constants"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/frontmatter"
	"github.com/mrz1836/taskmd/internal/store"
)

// addOptions holds the add command's flag values.
type addOptions struct {
	status  string
	tags    []string
	deps    []int
	content string
	fields  []string
}

func newAddCmd(flags *GlobalFlags) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Long: `Create a new task record. The id is allocated under the workspace
lock, so concurrent adds from separate processes never collide.

Caller-defined front-matter fields can be attached with --field and are
preserved verbatim on every later edit.

Examples:
  taskmd add "Fix login flow"
  taskmd add "Ship v2" --status in-progress --tags release,urgent
  taskmd add "Write docs" --depends-on 3 --field owner=sam --field prio=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), flags, opts, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.status, "status", "s", string(constants.TaskStatusPending), "task status (pending|in-progress|done)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tags", "t", nil, "comma-separated tags (order kept)")
	cmd.Flags().IntSliceVarP(&opts.deps, "depends-on", "d", nil, "ids of tasks this one depends on")
	cmd.Flags().StringVarP(&opts.content, "content", "c", "", "markdown body")
	cmd.Flags().StringArrayVarP(&opts.fields, "field", "f", nil, "custom front-matter field as key=value (repeatable)")

	return cmd
}

func runAdd(ctx context.Context, flags *GlobalFlags, opts *addOptions, title string, w io.Writer) error {
	if err := validateAddInput(title, opts.status); err != nil {
		return err
	}

	extra, err := parseFieldFlags(opts.fields)
	if err != nil {
		return err
	}

	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	logger := Logger()
	logger.Debug().Str("title", title).Msg("creating task")

	task, err := e.store.Create(ctx, &store.Draft{
		Title:        title,
		Status:       constants.TaskStatus(opts.status),
		Tags:         opts.tags,
		Dependencies: opts.deps,
		Content:      opts.content,
		Extra:        extra,
	})
	if err != nil {
		return err
	}

	logger.Info().Int("id", task.ID).Msg("task created")
	_, err = fmt.Fprintf(w, "Created task %d: %s\n", task.ID, task.Title)
	return err
}

// validateAddInput checks flag-level input shape before the draft
// reaches the store's schema validation.
func validateAddInput(title, status string) error {
	err := validation.Errors{
		"title":  validation.Validate(title, validation.Required, validation.Length(1, 0)),
		"status": validation.Validate(status, validation.Required, validation.In(statusValues()...)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%v: %w", err, taskmderrors.ErrValidation)
	}
	return nil
}

// statusValues returns the status enum as ozzo In() arguments.
func statusValues() []any {
	statuses := constants.AllTaskStatuses()
	out := make([]any, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// parseFieldFlags turns repeated key=value flags into ordered fields.
// Values are decoded as YAML scalars, so --field count=3 yields an
// integer and --field note="a b" a string.
func parseFieldFlags(pairs []string) (*frontmatter.Fields, error) {
	fields := frontmatter.New()
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("field %q must be key=value: %w", pair, taskmderrors.ErrValidation)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			// Not a YAML scalar; keep it as the literal string.
			value = raw
		}
		fields.Set(key, value)
	}
	return fields, nil
}
