package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("splits header and content", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\ntitle: Fix login\nid: 3\n---\nBody text\n")
		require.NoError(t, err)

		title, ok := doc.Data.Get("title")
		require.True(t, ok)
		assert.Equal(t, "Fix login", title)

		id, ok := doc.Data.Get("id")
		require.True(t, ok)
		assert.Equal(t, 3, id)

		assert.Equal(t, "Body text\n", doc.Content)
	})

	t.Run("preserves key insertion order", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\nzeta: 1\nalpha: 2\nmiddle: 3\n---\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "middle"}, doc.Data.Keys())
	})

	t.Run("no front matter returns whole input as content", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("just a plain file\nwith two lines\n")
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Equal(t, "just a plain file\nwith two lines\n", doc.Content)
	})

	t.Run("missing closing delimiter returns whole input as content", func(t *testing.T) {
		t.Parallel()
		raw := "---\ntitle: dangling\nno closing line\n"
		doc, err := Parse(raw)
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Equal(t, raw, doc.Content)
	})

	t.Run("closing delimiter at end of input without newline", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\ntitle: tight\n---")
		require.NoError(t, err)
		title, ok := doc.Data.Get("title")
		require.True(t, ok)
		assert.Equal(t, "tight", title)
		assert.Empty(t, doc.Content)
	})

	t.Run("opening delimiter tolerates trailing whitespace and CR", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("--- \t\r\ntitle: tolerant\n---\nbody")
		require.NoError(t, err)
		title, ok := doc.Data.Get("title")
		require.True(t, ok)
		assert.Equal(t, "tolerant", title)
	})

	t.Run("closing delimiter must be exact", func(t *testing.T) {
		t.Parallel()
		raw := "---\ntitle: strict\n--- \nbody\n"
		doc, err := Parse(raw)
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Equal(t, raw, doc.Content)
	})

	t.Run("delimiter line inside body is not swallowed", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\ntitle: hr\n---\nbefore\n---\nafter\n")
		require.NoError(t, err)
		assert.Equal(t, "before\n---\nafter\n", doc.Content)
	})

	t.Run("empty header block", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\n---\nbody\n")
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Equal(t, "body\n", doc.Content)
	})

	t.Run("bare single line is content", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---")
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Equal(t, "---", doc.Content)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("")
		require.NoError(t, err)
		assert.Zero(t, doc.Data.Len())
		assert.Empty(t, doc.Content)
	})

	t.Run("invalid yaml header fails", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("---\ntitle: [unclosed\n---\nbody\n")
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrValidation)
	})

	t.Run("non-mapping header fails", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("---\n- just\n- a\n- list\n---\nbody\n")
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrValidation)
		assert.Contains(t, err.Error(), "must be a mapping")
	})

	t.Run("nested values decode", func(t *testing.T) {
		t.Parallel()
		doc, err := Parse("---\nmeta:\n  owner: amy\n  retries: 2\ntags:\n  - a\n  - b\n---\n")
		require.NoError(t, err)

		meta, ok := doc.Data.Get("meta")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"owner": "amy", "retries": 2}, meta)

		tags, ok := doc.Data.Get("tags")
		require.True(t, ok)
		assert.Equal(t, []any{"a", "b"}, tags)
	})
}

func TestStringify(t *testing.T) {
	t.Parallel()

	t.Run("empty data returns content unchanged", func(t *testing.T) {
		t.Parallel()
		out, err := Stringify("body only\n", New())
		require.NoError(t, err)
		assert.Equal(t, "body only\n", out)

		out, err = Stringify("body only\n", nil)
		require.NoError(t, err)
		assert.Equal(t, "body only\n", out)
	})

	t.Run("emits header in insertion order", func(t *testing.T) {
		t.Parallel()
		data := New()
		data.Set("zeta", 1)
		data.Set("alpha", "two")

		out, err := Stringify("body\n", data)
		require.NoError(t, err)
		assert.Equal(t, "---\nzeta: 1\nalpha: two\n---\nbody\n", out)
	})

	t.Run("cycle in value tree fails", func(t *testing.T) {
		t.Parallel()
		inner := map[string]any{}
		inner["self"] = inner
		data := New()
		data.Set("bad", inner)

		_, err := Stringify("", data)
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrCycle)
	})

	t.Run("shared subtree without cycle is fine", func(t *testing.T) {
		t.Parallel()
		shared := map[string]any{"n": 1}
		data := New()
		data.Set("a", shared)
		data.Set("b", shared)

		_, err := Stringify("", data)
		require.NoError(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"empty":                  "",
		"plain":                  "hello\n",
		"no trailing newline":    "hello",
		"many trailing newlines": "hello\n\n\n\n",
		"crlf endings":           "line one\r\nline two\r\n",
		"mixed endings":          "a\r\nb\nc\r\n",
		"delimiter in body":      "intro\n---\noutro\n",
		"unicode":                "héllo wörld   漢字\n",
		"leading blank lines":    "\n\n\nstart late\n",
	}

	data := New()
	data.Set("title", "Round trip")
	data.Set("count", 42)
	data.Set("tags", []any{"x", "y"})

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			serialized, err := Stringify(body, data)
			require.NoError(t, err)

			doc, err := Parse(serialized)
			require.NoError(t, err)

			assert.Equal(t, body, doc.Content, "body must survive byte-for-byte")
			assert.Equal(t, data.Keys(), doc.Data.Keys())
		})
	}

	t.Run("custom fields survive a second pass", func(t *testing.T) {
		t.Parallel()
		raw := "---\ntitle: keep me\nx-custom: some value\nnested:\n  deep: true\n---\nbody\n"
		doc, err := Parse(raw)
		require.NoError(t, err)

		serialized, err := Stringify(doc.Content, doc.Data)
		require.NoError(t, err)

		again, err := Parse(serialized)
		require.NoError(t, err)
		assert.Equal(t, doc.Data.Keys(), again.Data.Keys())
		assert.Equal(t, doc.Content, again.Content)
	})
}

func TestParseLargeHeader(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("---\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("key")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(": v\n")
	}
	sb.WriteString("---\nbody\n")

	doc, err := Parse(sb.String())
	require.NoError(t, err)
	assert.Equal(t, "body\n", doc.Content)
}
