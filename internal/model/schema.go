package model

import (
	"slices"

	"fieldmap/internal/match"
)

// Method is a named callable exposed by a schema.
type Method func(value any) (any, error)

// Schema describes a record schema and its place in the schema tree.
type Schema struct {
	// Name is the schema name as written by the developer (e.g. "LegacyUser").
	Name string
	// Parent is the schema this one specializes, or nil for a root schema.
	Parent *Schema
	// Fields lists the schema's field names.
	Fields []string

	methods map[string]Method
}

// NewSchema creates a schema.
func NewSchema(name string, parent *Schema, fields ...string) *Schema {
	return &Schema{
		Name:   name,
		Parent: parent,
		Fields: fields,
	}
}

// BaseName returns the canonical name used to refer to the schema from rules.
func (s *Schema) BaseName() string {
	return match.SnakeCase(s.Name)
}

// AddMethod registers a named method and returns the schema for chaining.
func (s *Schema) AddMethod(name string, fn Method) *Schema {
	if s.methods == nil {
		s.methods = make(map[string]Method)
	}

	s.methods[name] = fn

	return s
}

// Method looks up a method on the schema or its ancestors.
func (s *Schema) Method(name string) (Method, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if fn, ok := cur.methods[name]; ok {
			return fn, true
		}
	}

	return nil, false
}

// MethodNames returns the method names visible on the schema, sorted.
func (s *Schema) MethodNames() []string {
	seen := map[string]struct{}{}

	var names []string

	for cur := s; cur != nil; cur = cur.Parent {
		for name := range cur.methods {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// HasField returns true if the schema declares the field.
func (s *Schema) HasField(name string) bool {
	return slices.Contains(s.Fields, name)
}

// IsA returns true if s is other or descends from it.
func (s *Schema) IsA(other *Schema) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}

	return false
}

// String returns the schema name.
func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}

	return s.Name
}
