package model

import (
	"errors"
	"fmt"

	"fieldmap/internal/match"
)

// Catalog is the set of schemas known to a process.
type Catalog struct {
	schemas []*Schema
	byName  map[string]*Schema
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*Schema)}
}

// Register adds schemas to the catalog. Names must be unique by base name.
func (c *Catalog) Register(schemas ...*Schema) error {
	for _, s := range schemas {
		if s == nil || s.Name == "" {
			return errors.New("schema must have a name")
		}

		key := s.BaseName()
		if _, exists := c.byName[key]; exists {
			return fmt.Errorf("schema %q already registered", s.Name)
		}

		c.byName[key] = s
		c.schemas = append(c.schemas, s)
	}

	return nil
}

// Lookup finds a schema by name or base name.
func (c *Catalog) Lookup(name string) (*Schema, bool) {
	s, ok := c.byName[match.SnakeCase(name)]
	return s, ok
}

// Subclasses returns the descendants of base in registration order.
func (c *Catalog) Subclasses(base *Schema) []*Schema {
	var result []*Schema

	for _, s := range c.schemas {
		if s != base && s.IsA(base) {
			result = append(result, s)
		}
	}

	return result
}

// Subclass finds the descendant of base whose base name equals name.
func (c *Catalog) Subclass(base *Schema, name string) (*Schema, bool) {
	want := match.SnakeCase(name)

	for _, s := range c.Subclasses(base) {
		if s.BaseName() == want {
			return s, true
		}
	}

	return nil, false
}

// Names returns the base names of all registered schemas in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.schemas))
	for _, s := range c.schemas {
		names = append(names, s.BaseName())
	}

	return names
}

// Suggest returns registered names similar to name.
func (c *Catalog) Suggest(name string) []string {
	return match.Suggest(name, c.Names(), match.DefaultSuggestions)
}
