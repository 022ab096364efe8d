// Package domain provides shared domain types for the taskmd record
// store. These types are used across all internal packages to ensure
// consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/frontmatter, standard library
//   - MUST NOT import: any other internal packages
package domain

import (
	"time"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/frontmatter"
)

// Core task field names as they appear in front matter.
const (
	FieldSchema       = "schema"
	FieldID           = "id"
	FieldTitle        = "title"
	FieldStatus       = "status"
	FieldCreated      = "created"
	FieldUpdated      = "updated"
	FieldTags         = "tags"
	FieldDependencies = "dependencies"
)

// CoreTaskFields lists the core task field names in serialization
// order.
func CoreTaskFields() []string {
	return []string{
		FieldSchema,
		FieldID,
		FieldTitle,
		FieldStatus,
		FieldCreated,
		FieldUpdated,
		FieldTags,
		FieldDependencies,
	}
}

// Task represents a single task record, persisted as <id>-<slug>.md
// with the core fields in YAML front matter and Content as the
// markdown body.
//
// Extra carries caller-defined fields verbatim. The store never
// inspects their values; they survive every read-modify-write cycle
// unchanged.
type Task struct {
	// Schema is the record schema version. Always
	// constants.SchemaVersion for records this build writes.
	Schema int

	// ID is the positive integer identity, unique within the store and
	// immutable after creation.
	ID int

	// Title is the human-readable summary. Non-empty, length-capped.
	Title string

	// Status is the lifecycle state (pending, in-progress, done).
	Status constants.TaskStatus

	// Created is when the record was created.
	Created time.Time

	// Updated is when the record was last written. Never before
	// Created.
	Updated time.Time

	// Tags is caller-ordered; duplicates are allowed.
	Tags []string

	// Dependencies references other task ids. The store treats this as
	// opaque data, not an enforced graph.
	Dependencies []int

	// Content is the markdown body, preserved byte-for-byte.
	Content string

	// Extra holds caller-defined fields in insertion order. Never nil
	// on records returned by the store.
	Extra *frontmatter.Fields
}

// Fields returns the record as an ordered field collection: core
// fields first in fixed order, then the caller-defined fields in
// their insertion order. This is the shape handed to the front-matter
// codec.
func (t *Task) Fields() *frontmatter.Fields {
	f := frontmatter.New()
	f.Set(FieldSchema, t.Schema)
	f.Set(FieldID, t.ID)
	f.Set(FieldTitle, t.Title)
	f.Set(FieldStatus, string(t.Status))
	f.Set(FieldCreated, t.Created.UTC().Format(time.RFC3339))
	f.Set(FieldUpdated, t.Updated.UTC().Format(time.RFC3339))
	f.Set(FieldTags, toAnySlice(t.Tags))
	f.Set(FieldDependencies, intsToAnySlice(t.Dependencies))
	for _, k := range t.Extra.Keys() {
		v, _ := t.Extra.Get(k)
		f.Set(k, v)
	}
	return f
}

// FieldCount returns the total number of fields, core plus
// caller-defined, as counted against the record field ceiling.
func (t *Task) FieldCount() int {
	return len(CoreTaskFields()) + t.Extra.Len()
}

// HasTag reports whether tag appears in the task's tag list.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// DependsOn reports whether id appears in the task's dependency list.
func (t *Task) DependsOn(id int) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func intsToAnySlice(in []int) []any {
	out := make([]any, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}
