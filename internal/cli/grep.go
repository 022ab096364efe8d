package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/store"
)

func newGrepCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grep <pattern>",
		Short: "Search task titles and bodies with a regular expression",
		Long: `Search every task's title and markdown body with a Go regular
expression. Matching body lines are printed with their line numbers.

Examples:
  taskmd grep "TODO"
  taskmd grep "(?i)login"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrep(cmd.Context(), flags, args[0], os.Stdout)
		},
	}
	return cmd
}

func runGrep(ctx context.Context, flags *GlobalFlags, pattern string, w io.Writer) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %v: %w", pattern, err, taskmderrors.ErrValidation)
	}

	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	tasks, err := e.store.List(ctx, store.Filter{})
	if err != nil {
		return err
	}

	for _, t := range tasks {
		titleHit := re.MatchString(t.Title)
		var bodyHits []string
		for i, line := range strings.Split(t.Content, "\n") {
			if re.MatchString(line) {
				bodyHits = append(bodyHits, fmt.Sprintf("  %d: %s", i+1, line))
			}
		}
		if !titleHit && len(bodyHits) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", t.ID, t.Title); err != nil {
			return err
		}
		for _, hit := range bodyHits {
			if _, err := fmt.Fprintln(w, hit); err != nil {
				return err
			}
		}
	}
	return nil
}
