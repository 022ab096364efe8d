package schema

import (
	"fmt"
	"time"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/frontmatter"
)

// TaskLimits carries the configurable length caps applied during task
// validation. Zero means uncapped.
type TaskLimits struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

// LimitsFromConfig extracts task validation limits from a workspace
// config.
func LimitsFromConfig(cfg *domain.Config) TaskLimits {
	return TaskLimits{
		MaxTitleLength:       cfg.MaxTitleLength,
		MaxDescriptionLength: cfg.MaxDescriptionLength,
	}
}

// coreTaskFieldSet indexes the core field names for unknown-field
// separation.
var coreTaskFieldSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range domain.CoreTaskFields() {
		set[name] = struct{}{}
	}
	return set
}()

// ValidateTask type-checks the eight core task fields strictly and
// passes every other field through unexamined. content is the markdown
// body, validated only against the configured description length cap.
//
// The total-field-count ceiling is checked last, after core and
// caller-defined fields are merged.
func ValidateTask(input any, content string, limits TaskLimits) (*domain.Task, error) {
	fields, ok := asFields(input)
	if !ok {
		return nil, validationErr("%s must be an object", KindTask)
	}

	task := &domain.Task{Content: content, Extra: frontmatter.New()}

	schemaVersion, err := requireInt(fields, KindTask, domain.FieldSchema)
	if err != nil {
		return nil, err
	}
	if schemaVersion != constants.SchemaVersion {
		return nil, validationErr("Core field '%s' in %s must equal %d, got %d",
			domain.FieldSchema, KindTask, constants.SchemaVersion, schemaVersion)
	}
	task.Schema = schemaVersion

	if task.ID, err = requireInt(fields, KindTask, domain.FieldID); err != nil {
		return nil, err
	}
	if task.ID <= 0 {
		return nil, validationErr("Core field '%s' in %s must be a positive integer, got %d",
			domain.FieldID, KindTask, task.ID)
	}

	if task.Title, err = requireString(fields, KindTask, domain.FieldTitle); err != nil {
		return nil, err
	}
	if task.Title == "" {
		return nil, validationErr("Core field '%s' in %s must be a non-empty string", domain.FieldTitle, KindTask)
	}
	if limits.MaxTitleLength > 0 && len([]rune(task.Title)) > limits.MaxTitleLength {
		return nil, validationErr("Core field '%s' in %s exceeds maximum length of %d characters",
			domain.FieldTitle, KindTask, limits.MaxTitleLength)
	}

	status, err := requireString(fields, KindTask, domain.FieldStatus)
	if err != nil {
		return nil, err
	}
	task.Status = constants.TaskStatus(status)
	if !task.Status.IsValid() {
		return nil, validationErr("Core field '%s' in %s must be one of: pending, in-progress, done, got '%s'",
			domain.FieldStatus, KindTask, status)
	}

	if task.Created, err = requireTimestamp(fields, domain.FieldCreated); err != nil {
		return nil, err
	}
	if task.Updated, err = requireTimestamp(fields, domain.FieldUpdated); err != nil {
		return nil, err
	}
	if task.Created.After(task.Updated) {
		return nil, validationErr("Core field '%s' in %s must not be after '%s'",
			domain.FieldCreated, KindTask, domain.FieldUpdated)
	}

	if task.Tags, err = tagList(fields); err != nil {
		return nil, err
	}
	if task.Dependencies, err = dependencyList(fields); err != nil {
		return nil, err
	}

	if limits.MaxDescriptionLength > 0 && len([]rune(content)) > limits.MaxDescriptionLength {
		return nil, validationErr("Task content exceeds maximum length of %d characters", limits.MaxDescriptionLength)
	}

	// Everything outside the core schema passes through untouched, in
	// insertion order.
	for _, key := range fields.Keys() {
		if _, core := coreTaskFieldSet[key]; core {
			continue
		}
		v, _ := fields.Get(key)
		task.Extra.Set(key, v)
	}

	if task.FieldCount() > constants.MaxRecordFields {
		return nil, fmt.Errorf("%s cannot have more than %d fields (core and custom combined), got %d: %w",
			KindTask, constants.MaxRecordFields, task.FieldCount(), taskmderrors.ErrTooManyFields)
	}

	return task, nil
}

// requireTimestamp fetches a required ISO-8601 timestamp field.
func requireTimestamp(f *frontmatter.Fields, name string) (time.Time, error) {
	v, ok := f.Get(name)
	if !ok {
		return time.Time{}, validationErr("Missing required core field '%s' in %s", name, KindTask)
	}
	t, ok := asTime(v)
	if !ok {
		return time.Time{}, validationErr("Core field '%s' in %s must be an ISO-8601 timestamp, got %s",
			name, KindTask, typeName(v))
	}
	return t, nil
}

// tagList fetches the optional tags field, requiring every element to
// be a string. Order and duplicates are caller-significant and kept.
func tagList(f *frontmatter.Fields) ([]string, error) {
	v, ok := f.Get(domain.FieldTags)
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, validationErr("Core field '%s' in %s must be of type array, got %s",
			domain.FieldTags, KindTask, typeName(v))
	}
	tags := make([]string, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, validationErr("All tags in %s must be strings, got %s at index %d",
				KindTask, typeName(item), i)
		}
		tags[i] = s
	}
	return tags, nil
}

// dependencyList fetches the optional dependencies field, requiring
// every element to be numeric.
func dependencyList(f *frontmatter.Fields) ([]int, error) {
	v, ok := f.Get(domain.FieldDependencies)
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, validationErr("Core field '%s' in %s must be of type array, got %s",
			domain.FieldDependencies, KindTask, typeName(v))
	}
	deps := make([]int, len(raw))
	for i, item := range raw {
		n, ok := asInt(item)
		if !ok {
			return nil, validationErr("All dependencies in %s must be numeric, got %s at index %d",
				KindTask, typeName(item), i)
		}
		deps[i] = n
	}
	return deps, nil
}
