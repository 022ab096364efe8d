package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/store"
)

func newDeleteCmd(flags *GlobalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long: `Delete a task record. The delete is refused while other tasks list the
id in their dependencies, unless --force is given. The dependency check
happens at the command layer; the store itself treats dependencies as
opaque data.

Examples:
  taskmd delete 3
  taskmd delete 3 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runDelete(cmd.Context(), flags, id, force, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete even when other tasks depend on this one")
	return cmd
}

func runDelete(ctx context.Context, flags *GlobalFlags, id int, force bool, w io.Writer) error {
	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	if !force {
		if err := checkDependents(ctx, e.store, id); err != nil {
			return err
		}
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}

	logger := Logger()
	logger.Info().Int("id", id).Msg("task deleted")
	_, err = fmt.Fprintf(w, "Deleted task %d\n", id)
	return err
}

// checkDependents refuses deletion while any other task depends on id.
func checkDependents(ctx context.Context, s *store.Store, id int) error {
	tasks, err := s.List(ctx, store.Filter{})
	if err != nil {
		return err
	}

	var dependents []string
	for _, t := range tasks {
		if t.ID != id && t.DependsOn(id) {
			dependents = append(dependents, strconv.Itoa(t.ID))
		}
	}
	if len(dependents) > 0 {
		return fmt.Errorf("task %d is a dependency of task(s) %s (use --force to delete anyway): %w",
			id, strings.Join(dependents, ", "), taskmderrors.ErrDependentTasks)
	}
	return nil
}
