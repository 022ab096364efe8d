// Package frontmatter parses and serializes markdown documents that
// carry a YAML header between --- delimiter lines.
//
// The codec is round-trip exact on the body: Parse and Stringify are
// mutual inverses for every body value, including an empty body, a
// body with no trailing newline, multiple trailing newlines, and CRLF
// or mixed line endings. Only \n-delimited splitting is used to locate
// delimiter lines, so files using bare \r line endings are treated as
// having no front matter at all.
package frontmatter

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

const delimiter = "---"

// Document is the result of splitting a raw file into header data and
// body content.
type Document struct {
	// Data holds the decoded header mapping in key insertion order.
	// Empty (never nil) when the file has no front matter.
	Data *Fields

	// Content is the body, byte-for-byte as it appeared after the
	// closing delimiter line.
	Content string
}

// Parse splits raw into header data and body content.
//
// The input is treated as having a header only when its first line is
// exactly "---" (trailing spaces, tabs, or a stray \r tolerated).
// The header ends at the next line that is exactly "---". When either
// delimiter is missing, the entire input is returned as Content with
// an empty Data map. A header that is present but not valid YAML
// returns an error wrapping errors.ErrValidation naming the cause.
func Parse(raw string) (*Document, error) {
	first, rest, hasNL := cutLine(raw)
	if strings.TrimRight(first, " \t\r") != delimiter || !hasNL {
		return &Document{Data: New(), Content: raw}, nil
	}

	// Scan \n-delimited lines for the closing delimiter.
	pos := 0
	for {
		end := strings.IndexByte(rest[pos:], '\n')
		if end < 0 {
			// Last line without trailing newline.
			if rest[pos:] == delimiter {
				data, err := decodeHeader(rest[:pos])
				if err != nil {
					return nil, err
				}
				return &Document{Data: data, Content: ""}, nil
			}
			// No closing delimiter: the whole input is content.
			return &Document{Data: New(), Content: raw}, nil
		}
		if rest[pos:pos+end] == delimiter {
			data, err := decodeHeader(rest[:pos])
			if err != nil {
				return nil, err
			}
			return &Document{Data: data, Content: rest[pos+end+1:]}, nil
		}
		pos += end + 1
	}
}

// cutLine splits s at the first \n. hasNL is false when s has no
// newline at all, in which case line is the entire input.
func cutLine(s string) (line, rest string, hasNL bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// decodeHeader parses the text between the delimiters as a YAML
// mapping, preserving key order.
func decodeHeader(header string) (*Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, fmt.Errorf("invalid front matter: %v: %w", err, taskmderrors.ErrValidation)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty header block or comments only.
		return New(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid front matter: header must be a mapping: %w", taskmderrors.ErrValidation)
	}

	fields := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("invalid front matter: non-scalar mapping key at line %d: %w", keyNode.Line, taskmderrors.ErrValidation)
		}
		var value any
		if err := valNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid front matter: %v: %w", err, taskmderrors.ErrValidation)
		}
		fields.Set(keyNode.Value, value)
	}
	return fields, nil
}

// Stringify serializes content and data back into a single document.
//
// With empty or absent data the content is returned unchanged, with no
// header emitted. Otherwise the output is "---\n", the encoded header
// in key insertion order, "---\n", and the content with nothing
// injected between, so Parse recovers both parts exactly. Encoding a
// value tree containing a reference cycle returns an error wrapping
// errors.ErrCycle.
func Stringify(content string, data *Fields) (string, error) {
	if data.Len() == 0 {
		return content, nil
	}

	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		if err := checkCycle(reflect.ValueOf(v), nil); err != nil {
			return "", taskmderrors.Wrapf(err, "cannot serialize field '%s'", key)
		}
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return "", taskmderrors.Wrapf(err, "cannot serialize field '%s'", key)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", taskmderrors.Wrap(err, "cannot serialize front matter")
	}
	if err := enc.Close(); err != nil {
		return "", taskmderrors.Wrap(err, "cannot serialize front matter")
	}

	var out strings.Builder
	out.Grow(len(delimiter)*2 + 2 + buf.Len() + len(content))
	out.WriteString(delimiter)
	out.WriteByte('\n')
	out.Write(buf.Bytes())
	out.WriteString(delimiter)
	out.WriteByte('\n')
	out.WriteString(content)
	return out.String(), nil
}

// checkCycle walks a value tree and fails when a map, slice, or
// pointer is reached twice along the same path.
func checkCycle(v reflect.Value, path []uintptr) error {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer {
			if err := seen(v.Pointer(), path); err != nil {
				return err
			}
			path = append(path, v.Pointer())
		}
		return checkCycle(v.Elem(), path)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if err := seen(v.Pointer(), path); err != nil {
			return err
		}
		path = append(path, v.Pointer())
		iter := v.MapRange()
		for iter.Next() {
			if err := checkCycle(iter.Value(), path); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if err := seen(v.Pointer(), path); err != nil {
			return err
		}
		path = append(path, v.Pointer())
		fallthrough
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkCycle(v.Index(i), path); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func seen(ptr uintptr, path []uintptr) error {
	for _, p := range path {
		if p == ptr {
			return taskmderrors.ErrCycle
		}
	}
	return nil
}
