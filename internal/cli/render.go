package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/frontmatter"
)

// Table styles.
var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
	doneStyle        = lipgloss.NewStyle().Faint(true)
)

// renderTasks writes tasks in the requested format.
func renderTasks(w io.Writer, tasks []*domain.Task, format string) error {
	switch format {
	case OutputTable:
		return renderTable(w, tasks)
	case OutputCSV:
		return renderCSV(w, tasks)
	case OutputYAML:
		return renderYAML(w, tasks)
	case OutputNDJSON:
		return renderNDJSON(w, tasks)
	default:
		return fmt.Errorf("%w: %q must be one of %v", taskmderrors.ErrInvalidOutputFormat, format, ValidOutputFormats())
	}
}

// renderTable writes a fixed-width styled table.
func renderTable(w io.Writer, tasks []*domain.Task) error {
	const rowFormat = "%-4s %-12s %-40s %-20s %s\n"

	header := fmt.Sprintf(rowFormat, "ID", "STATUS", "TITLE", "TAGS", "UPDATED")
	if _, err := fmt.Fprint(w, tableHeaderStyle.Render(strings.TrimRight(header, "\n"))+"\n"); err != nil {
		return err
	}

	for _, t := range tasks {
		row := fmt.Sprintf(rowFormat,
			strconv.Itoa(t.ID),
			t.Status.String(),
			truncate(t.Title, 40),
			truncate(strings.Join(t.Tags, ","), 20),
			t.Updated.Local().Format("2006-01-02 15:04"),
		)
		if t.Status == constants.TaskStatusDone {
			row = doneStyle.Render(strings.TrimRight(row, "\n")) + "\n"
		}
		if _, err := fmt.Fprint(w, row); err != nil {
			return err
		}
	}
	return nil
}

// renderCSV writes one row per task with list fields joined by
// semicolons.
func renderCSV(w io.Writer, tasks []*domain.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "status", "created", "updated", "tags", "dependencies"}); err != nil {
		return err
	}
	for _, t := range tasks {
		deps := make([]string, len(t.Dependencies))
		for i, d := range t.Dependencies {
			deps[i] = strconv.Itoa(d)
		}
		row := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Status.String(),
			t.Created.UTC().Format("2006-01-02T15:04:05Z07:00"),
			t.Updated.UTC().Format("2006-01-02T15:04:05Z07:00"),
			strings.Join(t.Tags, ";"),
			strings.Join(deps, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// renderYAML writes the tasks as a YAML sequence of full records,
// field order preserved, with the body under a content key.
func renderYAML(w io.Writer, tasks []*domain.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	out := make([]*frontmatter.Fields, len(tasks))
	for i, t := range tasks {
		out[i] = exportFields(t)
	}
	return enc.Encode(out)
}

// renderNDJSON writes one JSON object per line, field order preserved.
func renderNDJSON(w io.Writer, tasks []*domain.Task) error {
	enc := json.NewEncoder(w)
	for _, t := range tasks {
		if err := enc.Encode(exportFields(t)); err != nil {
			return err
		}
	}
	return nil
}

// exportFields is the full record shape for structured exports: front
// matter fields plus the body as a content key.
func exportFields(t *domain.Task) *frontmatter.Fields {
	f := t.Fields()
	f.Set("content", t.Content)
	return f
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
