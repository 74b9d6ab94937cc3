package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"fieldmap/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// --- ThroughSpec YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for ThroughSpec.
func (t *ThroughSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var method string
		if err := node.Decode(&method); err != nil {
			return err
		}

		*t = ThroughSpec{Method: method}

		return nil

	case yaml.MappingNode:
		type plain ThroughSpec

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*t = ThroughSpec(p)

		return nil

	default:
		return fmt.Errorf("line %d: through expects a method name or {method|transform: name}", node.Line)
	}
}

// --- UsingSpec YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for UsingSpec.
func (u *UsingSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		if name == "" {
			return fmt.Errorf("line %d: using needs a template name", node.Line)
		}

		*u = UsingSpec{Template: name}

		return nil

	case yaml.MappingNode:
		type plain UsingSpec

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		if p.Template != "" && len(p.Steps) > 0 {
			return fmt.Errorf("line %d: using takes a template or steps, not both", node.Line)
		}

		*u = UsingSpec(p)

		return nil

	default:
		return fmt.Errorf("line %d: using expects a template name or {steps: [...]}", node.Line)
	}
}

// --- DeleteSpec YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for DeleteSpec.
// Accepts a field name, or true for the current field.
func (d *DeleteSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: delete expects a field name or true", node.Line)
	}

	if node.ShortTag() == "!!bool" {
		var current bool
		if err := node.Decode(&current); err != nil {
			return err
		}

		if !current {
			return errors.New("delete: false is not allowed; omit the step instead")
		}

		*d = DeleteSpec{}

		return nil
	}

	var field string
	if err := node.Decode(&field); err != nil {
		return err
	}

	*d = DeleteSpec{Field: field}

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return common.UnknownStr
	}
}
