package frontmatter

// Fields is a string-keyed collection that remembers key insertion
// order. Task records round-trip through Fields so that caller-defined
// fields come back in the order they were written, and so Stringify
// emits a stable header.
//
// Values are opaque, already-deserialized trees (string, bool, int,
// float64, nil, []any, map[string]any). Fields never inspects them
// beyond cycle detection at the codec boundary.
type Fields struct {
	keys   []string
	values map[string]any
}

// New returns an empty Fields.
func New() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores value under key. A new key is appended to the order; an
// existing key keeps its position and has its value overwritten.
func (f *Fields) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether it was present.
func (f *Fields) Get(key string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Delete removes key, preserving the relative order of the rest.
func (f *Fields) Delete(key string) {
	if f == nil || f.values == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the keys in insertion order. The returned slice is a
// copy and safe to modify.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Clone returns a shallow copy: key order and top-level values are
// copied, nested values are shared.
func (f *Fields) Clone() *Fields {
	c := New()
	if f == nil {
		return c
	}
	for _, k := range f.keys {
		c.Set(k, f.values[k])
	}
	return c
}

// Map returns the fields as a plain map. Key order is lost; the
// returned map is a copy and safe to modify.
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, f.Len())
	if f == nil {
		return out
	}
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
