package ordered

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML builds a tracked map tree from a YAML mapping. Nested mappings
// become nested maps; sequences and scalars are decoded as plain values.
func FromYAML(node *yaml.Node) (*Map, error) {
	if node == nil {
		return nil, errors.New("nil yaml node")
	}

	node = resolve(node)

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping at the document root", node.Line)
	}

	root := New()
	if err := fill(root, node); err != nil {
		return nil, err
	}

	return root, nil
}

// Parse decodes a YAML document into a tracked map tree.
func Parse(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if doc.Kind == 0 {
		return New(), nil
	}

	return FromYAML(&doc)
}

func fill(m *Map, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], resolve(node.Content[i+1])

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("line %d: invalid key: %w", keyNode.Line, err)
		}

		if valueNode.Kind == yaml.MappingNode {
			child := New()
			if err := fill(child, valueNode); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}

			m.Set(key, child)

			continue
		}

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: %s: %w", valueNode.Line, key, err)
		}

		m.Set(key, value)
	}

	return nil
}

// resolve unwraps document and alias nodes.
func resolve(node *yaml.Node) *yaml.Node {
	for {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
}
