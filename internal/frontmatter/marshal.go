package frontmatter

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler, emitting the fields as a
// mapping in key insertion order.
func (f *Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range f.Keys() {
		v, _ := f.Get(key)
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// MarshalJSON implements json.Marshaler, emitting the fields as an
// object in key insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		v, _ := f.Get(key)
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
