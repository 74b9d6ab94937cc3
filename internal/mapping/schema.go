package mapping

import (
	"strings"
)

// File represents the root of a YAML rule definition file.
type File struct {
	// Version of the file format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Schemas describes the record shapes rules map between.
	Schemas []SchemaDef `yaml:"schemas,omitempty"`

	// Transforms defines named transform chains built from registered transforms.
	Transforms []TransformDef `yaml:"transforms,omitempty"`

	// Templates are reusable rule bodies, replayed with like or installed with using.
	Templates []TemplateDef `yaml:"templates,omitempty"`

	// Rules are the mapping rules to build.
	Rules []RuleDef `yaml:"rules,omitempty"`
}

// SchemaDef declares one schema.
type SchemaDef struct {
	Name string `yaml:"name"`

	// Parent is the name of the schema this one specializes.
	Parent string `yaml:"parent,omitempty"`

	Fields []string `yaml:"fields,omitempty"`

	// Methods maps a method name to the transform computing it, for through.
	Methods map[string]string `yaml:"methods,omitempty"`
}

// TransformDef composes registered transforms into a new named transform.
// The chain is applied left to right.
type TransformDef struct {
	Name        string        `yaml:"name"`
	Chain       StringOrArray `yaml:"chain"`
	Description string        `yaml:"description,omitempty"`
}

// TemplateDef is a named rule body with stored arguments.
type TemplateDef struct {
	Name  string `yaml:"name"`
	Args  []any  `yaml:"args,omitempty"`
	Steps []Step `yaml:"steps"`
}

// RuleDef declares one rule.
type RuleDef struct {
	Name string `yaml:"name"`

	// Source and Destination force the source and destination schemas to
	// resolve to the named subclasses.
	Source      string `yaml:"source,omitempty"`
	Destination string `yaml:"destination,omitempty"`

	// Args are passed to the rule body, where $1, $2 ... refer to them.
	Args  []any  `yaml:"args,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is a single builder operation. Exactly one operation key must be set;
// transform and args qualify the operation they accompany.
//
//	- to: full_name
//	- from: name
//	- from: status
//	  transform: present
//	- through: display_name
//	- using: address
//	  args: [billing]
//	- delete: password
//	- otherwise: copy
//	- like: audit
type Step struct {
	To   string `yaml:"to,omitempty"`
	From string `yaml:"from,omitempty"`

	// Transform names the transform of a to or from declaration.
	Transform string `yaml:"transform,omitempty"`

	Through *ThroughSpec `yaml:"through,omitempty"`
	Using   *UsingSpec   `yaml:"using,omitempty"`
	Delete  *DeleteSpec  `yaml:"delete,omitempty"`

	Otherwise string `yaml:"otherwise,omitempty"`
	Like      string `yaml:"like,omitempty"`

	// Args are passed to the template of a like or using step.
	Args []any `yaml:"args,omitempty"`

	// Find records a lookup matching candidates that carry all the listed fields.
	Find StringOrArray `yaml:"find,omitempty"`

	Destination *DestinationSpec `yaml:"destination,omitempty"`

	Done bool `yaml:"done,omitempty"`

	// Set stores rule variables.
	Set map[string]any `yaml:"set,omitempty"`

	ToModel    string `yaml:"to_model,omitempty"`
	FromModel  string `yaml:"from_model,omitempty"`
	ToSource   string `yaml:"to_source,omitempty"`
	FromSource string `yaml:"from_source,omitempty"`
}

// Operations returns the operation keys set on the step, in a fixed order.
func (s *Step) Operations() []string {
	var ops []string

	add := func(set bool, name string) {
		if set {
			ops = append(ops, name)
		}
	}

	add(s.To != "", "to")
	add(s.From != "", "from")
	add(s.Through != nil, "through")
	add(s.Using != nil, "using")
	add(s.Delete != nil, "delete")
	add(s.Otherwise != "", "otherwise")
	add(s.Like != "", "like")
	add(len(s.Find) > 0, "find")
	add(s.Destination != nil, "destination")
	add(s.Done, "done")
	add(len(s.Set) > 0, "set")
	add(s.ToModel != "", "to_model")
	add(s.FromModel != "", "from_model")
	add(s.ToSource != "", "to_source")
	add(s.FromSource != "", "from_source")

	return ops
}

// String returns a short description of the step for diagnostics.
func (s *Step) String() string {
	ops := s.Operations()
	if len(ops) == 0 {
		return "<empty step>"
	}

	return strings.Join(ops, "+")
}

// ThroughSpec selects the source of a derived value.
// YAML formats supported:
//   - Method name: "display_name"
//   - Explicit: {method: display_name} or {transform: upcase}
type ThroughSpec struct {
	Method    string `yaml:"method,omitempty"`
	Transform string `yaml:"transform,omitempty"`
}

// UsingSpec selects the body of a nested rule.
// YAML formats supported:
//   - Template name: "address"
//   - Inline body: {steps: [...]}
type UsingSpec struct {
	Template string `yaml:"template,omitempty"`
	Steps    []Step `yaml:"steps,omitempty"`
}

// IsInline returns true if the nested rule body is declared in place.
func (u *UsingSpec) IsInline() bool {
	return u.Template == ""
}

// DeleteSpec names the discarded source field.
// YAML formats supported:
//   - Field name: "password"
//   - true: the field of the preceding from step
type DeleteSpec struct {
	Field string
}

// Current returns true if the step discards the current field.
func (d *DeleteSpec) Current() bool {
	return d.Field == ""
}

// DestinationSpec names a routing transform and an optional destination field.
type DestinationSpec struct {
	Field  string `yaml:"field,omitempty"`
	Router string `yaml:"router"`
}

// StringOrArray is a type that can be unmarshaled from either a string or an array of strings.
// This allows YAML fields to accept both "field" and ["field1", "field2"].
type StringOrArray []string
