// Package store implements the concurrency-safe task record store.
//
// Records are markdown files named <id>-<slug>.md in the tasks
// directory. Every mutating operation acquires the workspace lock for
// its entire critical section and writes atomically, so a concurrent
// reader observes either the pre- or post-write state, never a torn
// file. Read-only operations take no lock.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/mrz1836/taskmd/internal/clock"
	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/frontmatter"
	"github.com/mrz1836/taskmd/internal/lockfile"
	"github.com/mrz1836/taskmd/internal/schema"
)

// Directory and file permission constants.
const dirPerm = 0o750

// taskFileRegex matches task file names and captures the numeric id
// prefix.
var taskFileRegex = regexp.MustCompile(`^(\d+)-.*\.md$`)

// systemFields may not be supplied or changed by callers; the store
// assigns them.
var systemFields = map[string]struct{}{
	domain.FieldSchema:  {},
	domain.FieldID:      {},
	domain.FieldCreated: {},
	domain.FieldUpdated: {},
}

// Store provides create/get/update/delete/list over task records in a
// single workspace.
type Store struct {
	tasksDir string
	cfg      *domain.Config
	lock     *lockfile.Manager
	clk      clock.Clock
}

// Options configures optional Store collaborators.
type Options struct {
	// Lock overrides the lock manager, used by tests to shorten
	// timeouts.
	Lock *lockfile.Manager

	// Clock overrides the timestamp source.
	Clock clock.Clock
}

// New creates a Store over tasksDir, locking through the lock file in
// metaDir.
func New(tasksDir, metaDir string, cfg *domain.Config, opts Options) *Store {
	if cfg == nil {
		cfg = domain.DefaultConfig()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Lock == nil {
		opts.Lock = lockfile.New(metaDir, lockfile.Options{
			Timeout: durationMs(cfg.LockTimeoutMs),
			Clock:   opts.Clock,
		})
	}
	return &Store{
		tasksDir: tasksDir,
		cfg:      cfg,
		lock:     opts.Lock,
		clk:      opts.Clock,
	}
}

// Draft is the caller-supplied portion of a new task. Schema, id, and
// timestamps are system-assigned.
type Draft struct {
	Title        string
	Status       constants.TaskStatus
	Tags         []string
	Dependencies []int
	Content      string

	// Extra carries caller-defined fields. Core field names are
	// rejected here; they have dedicated attributes.
	Extra *frontmatter.Fields
}

// Update is a partial modification of an existing task. Fields are
// shallow-merged over the current front matter: keys not present are
// preserved unchanged, keys set are overwritten, including to empty
// values. A nil Content keeps the existing body.
type Update struct {
	Fields  *frontmatter.Fields
	Content *string
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	// Status keeps only tasks with this status.
	Status constants.TaskStatus

	// Tag keeps only tasks carrying this tag.
	Tag string

	// Search keeps only tasks whose title or body contains this
	// substring, case-insensitively.
	Search string
}

// Create validates the draft, allocates the next id under the
// workspace lock, and atomically writes the new record. It returns the
// full validated task.
func (s *Store) Create(ctx context.Context, draft *Draft) (*domain.Task, error) {
	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, fmt.Errorf("draft %w", taskmderrors.ErrEmptyValue)
	}
	for _, key := range draft.Extra.Keys() {
		if err := rejectReserved(key); err != nil {
			return nil, err
		}
	}

	status := draft.Status
	if status == "" {
		status = constants.TaskStatusPending
	}

	if err := s.lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() { _ = s.lock.Release() }()

	id, err := s.nextID()
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	task := &domain.Task{
		Schema:       constants.SchemaVersion,
		ID:           id,
		Title:        draft.Title,
		Status:       status,
		Created:      now,
		Updated:      now,
		Tags:         draft.Tags,
		Dependencies: draft.Dependencies,
		Content:      draft.Content,
		Extra:        draft.Extra.Clone(),
	}

	validated, err := schema.ValidateTask(task.Fields(), task.Content, schema.LimitsFromConfig(s.cfg))
	if err != nil {
		return nil, err
	}

	if err := s.writeTask(validated, ""); err != nil {
		return nil, err
	}
	return validated, nil
}

// Get returns the task with the given id. No lock is taken; atomic
// writes guarantee a reader sees a complete file.
func (s *Store) Get(ctx context.Context, id int) (*domain.Task, error) {
	if err := ctxDone(ctx); err != nil {
		return nil, err
	}

	path, err := s.findTaskFile(id)
	if err != nil {
		return nil, err
	}
	return s.readTask(path)
}

// ApplyUpdate shallow-merges the partial update over the stored
// record, re-stamps the updated timestamp, re-validates, and
// atomically rewrites the file. A title change renames the file; the
// old file is replaced, not left behind.
func (s *Store) ApplyUpdate(ctx context.Context, id int, update *Update) (*domain.Task, error) {
	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	if update == nil {
		return nil, fmt.Errorf("update %w", taskmderrors.ErrEmptyValue)
	}
	for _, key := range update.Fields.Keys() {
		if err := rejectReserved(key); err != nil {
			return nil, err
		}
	}

	if err := s.lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() { _ = s.lock.Release() }()

	oldPath, err := s.findTaskFile(id)
	if err != nil {
		return nil, err
	}
	current, err := s.readTask(oldPath)
	if err != nil {
		return nil, err
	}

	merged := current.Fields()
	for _, key := range update.Fields.Keys() {
		v, _ := update.Fields.Get(key)
		merged.Set(key, normalizeValue(v))
	}
	merged.Set(domain.FieldUpdated, s.clk.Now().UTC().Format(timeLayout))

	content := current.Content
	if update.Content != nil {
		content = *update.Content
	}

	validated, err := schema.ValidateTask(merged, content, schema.LimitsFromConfig(s.cfg))
	if err != nil {
		return nil, err
	}

	if err := s.writeTask(validated, oldPath); err != nil {
		return nil, err
	}
	return validated, nil
}

// Delete removes the task file under the workspace lock. Dependency
// legality is the caller's concern, not enforced here.
func (s *Store) Delete(ctx context.Context, id int) error {
	if err := ctxDone(ctx); err != nil {
		return err
	}

	if err := s.lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = s.lock.Release() }()

	path, err := s.findTaskFile(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete task %d: %v: %w", id, err, taskmderrors.ErrFileSystem)
	}
	return nil
}

// List parses every record in the tasks directory, silently skipping
// files that fail to parse as a valid task, applies the filter, and
// returns the remainder ordered by ascending id. No lock is taken.
func (s *Store) List(ctx context.Context, filter Filter) ([]*domain.Task, error) {
	if err := ctxDone(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Task{}, nil
		}
		return nil, fmt.Errorf("failed to list tasks: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	tasks := make([]*domain.Task, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !taskFileRegex.MatchString(entry.Name()) {
			continue
		}
		if err := ctxDone(ctx); err != nil {
			return nil, err
		}
		task, err := s.readTask(filepath.Join(s.tasksDir, entry.Name()))
		if err != nil {
			// Corruption tolerance: a bad file must not abort the
			// whole listing.
			continue
		}
		if filter.matches(task) {
			tasks = append(tasks, task)
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// matches reports whether the task passes every set filter clause.
func (f Filter) matches(t *domain.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" && !containsFold(t.Title, f.Search) && !containsFold(t.Content, f.Search) {
		return false
	}
	return true
}

// readTask parses and validates a single record file.
func (s *Store) readTask(path string) (*domain.Task, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed from the tasks dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("task file '%s': %w", filepath.Base(path), taskmderrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read task file '%s': %v: %w", filepath.Base(path), err, taskmderrors.ErrFileSystem)
	}

	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		return nil, err
	}
	return schema.ValidateTask(doc.Data, doc.Content, schema.LimitsFromConfig(s.cfg))
}

// writeTask serializes, size-checks, and atomically writes a record.
// oldPath, when non-empty and different from the new path, is removed
// after the new file lands.
func (s *Store) writeTask(task *domain.Task, oldPath string) error {
	serialized, err := frontmatter.Stringify(task.Content, task.Fields())
	if err != nil {
		return err
	}
	if len(serialized) > s.cfg.MaxTaskSizeBytes {
		return fmt.Errorf("serialized task is %d bytes, exceeds maximum task size of %d bytes: %w",
			len(serialized), s.cfg.MaxTaskSizeBytes, taskmderrors.ErrTaskTooLarge)
	}

	if err := os.MkdirAll(s.tasksDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create tasks directory: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	path := filepath.Join(s.tasksDir, fileName(task.ID, task.Title))
	if err := atomicWrite(path, []byte(serialized)); err != nil {
		return err
	}
	if oldPath != "" && oldPath != path {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove renamed task file: %v: %w", err, taskmderrors.ErrFileSystem)
		}
	}
	return nil
}

// findTaskFile locates the record file whose name begins with "<id>-".
func (s *Store) findTaskFile(id int) (string, error) {
	entries, err := os.ReadDir(s.tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("task %d: %w", id, taskmderrors.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read tasks directory: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	prefix := strconv.Itoa(id) + "-"
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if taskFileRegex.MatchString(name) && len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return filepath.Join(s.tasksDir, name), nil
		}
	}
	return "", fmt.Errorf("task %d: %w", id, taskmderrors.ErrNotFound)
}

// nextID scans existing filenames for the highest numeric id prefix
// and returns max+1, starting at 1 for an empty store.
func (s *Store) nextID() (int, error) {
	entries, err := os.ReadDir(s.tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to read tasks directory: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	max := 0
	for _, entry := range entries {
		m := taskFileRegex.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

// rejectReserved fails when a caller tries to supply a system-assigned
// field as a custom one.
func rejectReserved(key string) error {
	if _, reserved := systemFields[key]; reserved {
		return fmt.Errorf("Core field '%s' in %s is system-assigned and cannot be set by the caller: %w",
			key, schema.KindTask, taskmderrors.ErrValidation)
	}
	return nil
}

// ctxDone checks for cancellation at operation entry.
func ctxDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
