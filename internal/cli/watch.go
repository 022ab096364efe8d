package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/store"
)

// watchDebounce coalesces editor write bursts into a single refresh.
const watchDebounce = 250 * time.Millisecond

func newWatchCmd(flags *GlobalFlags) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the tasks directory and re-render the list on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), flags, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runWatch(ctx context.Context, flags *GlobalFlags, opts *listOptions) error {
	e, err := openEnv(flags)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return taskmderrors.Wrap(err, "failed to create filesystem watcher")
	}
	defer func() { _ = watcher.Close() }()

	tasksDir := e.ws.TasksDir(e.cfg)
	if err := watcher.Add(tasksDir); err != nil {
		return taskmderrors.Wrapf(err, "failed to watch %s", tasksDir)
	}

	if err := refreshList(ctx, e.store, opts); err != nil {
		return err
	}

	var debounce *time.Timer
	refresh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger := Logger()
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case refresh <- struct{}{}:
				default:
				}
			})
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger := Logger()
			logger.Warn().Err(werr).Msg("watcher error")
		case <-refresh:
			if err := refreshList(ctx, e.store, opts); err != nil {
				return err
			}
		}
	}
}

func refreshList(ctx context.Context, s *store.Store, opts *listOptions) error {
	tasks, err := s.List(ctx, opts.filter())
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n", time.Now().Format(time.TimeOnly))
	return renderTable(os.Stdout, tasks)
}
