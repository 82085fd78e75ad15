// Package yaml provides a YAML codec implementation.
package yaml

import (
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/safejson"
)

// yamlCodec implements safejson.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() safejson.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML, keeping Object member order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// toNode builds a YAML node tree. Objects become mappings in member order;
// everything else is encoded by yaml.v3.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case safejson.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range val {
			if safejson.IsUndefined(m.Value) {
				continue
			}
			child, err := toNode(m.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}
			n.Content = append(n.Content, key, child)
		}
		return n, nil

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			child, err := toNode(elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	}

	if safejson.IsUndefined(v) {
		v = nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
