package frontmatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFields(t *testing.T) {
	t.Parallel()

	t.Run("set preserves insertion order", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("c", 1)
		f.Set("a", 2)
		f.Set("b", 3)
		assert.Equal(t, []string{"c", "a", "b"}, f.Keys())
	})

	t.Run("overwrite keeps original position", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("first", 1)
		f.Set("second", 2)
		f.Set("first", 99)

		assert.Equal(t, []string{"first", "second"}, f.Keys())
		v, ok := f.Get("first")
		require.True(t, ok)
		assert.Equal(t, 99, v)
	})

	t.Run("delete removes key and order entry", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("a", 1)
		f.Set("b", 2)
		f.Set("c", 3)
		f.Delete("b")

		assert.Equal(t, []string{"a", "c"}, f.Keys())
		assert.False(t, f.Has("b"))
		assert.Equal(t, 2, f.Len())
	})

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("a", 1)

		c := f.Clone()
		c.Set("b", 2)
		c.Set("a", 10)

		assert.Equal(t, []string{"a"}, f.Keys())
		v, _ := f.Get("a")
		assert.Equal(t, 1, v)
	})

	t.Run("nil receiver is safe for reads", func(t *testing.T) {
		t.Parallel()
		var f *Fields
		assert.Zero(t, f.Len())
		assert.Empty(t, f.Keys())
		_, ok := f.Get("anything")
		assert.False(t, ok)
		assert.NotNil(t, f.Clone())
	})

	t.Run("keys returns a copy", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("a", 1)
		f.Set("b", 2)

		keys := f.Keys()
		keys[0] = "mutated"
		assert.Equal(t, []string{"a", "b"}, f.Keys())
	})
}

func TestFieldsMarshal(t *testing.T) {
	t.Parallel()

	t.Run("yaml preserves order", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("z", 1)
		f.Set("a", "two")

		out, err := yaml.Marshal(f)
		require.NoError(t, err)
		assert.Equal(t, "z: 1\na: two\n", string(out))
	})

	t.Run("json preserves order", func(t *testing.T) {
		t.Parallel()
		f := New()
		f.Set("z", 1)
		f.Set("a", "two")
		f.Set("list", []any{1, 2})

		out, err := json.Marshal(f)
		require.NoError(t, err)
		assert.Equal(t, `{"z":1,"a":"two","list":[1,2]}`, string(out))
	})

	t.Run("empty marshals to empty object", func(t *testing.T) {
		t.Parallel()
		out, err := json.Marshal(New())
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(out))
	})
}
