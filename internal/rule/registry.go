package rule

import (
	"fmt"
	"slices"
)

// Template is a named, reusable rule body with stored arguments.
type Template struct {
	Name string
	Body Body
	Args []any
}

// Registry stores rule templates by name for the lifetime of the process.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register stores a template. A name can only be registered once.
func (r *Registry) Register(name string, body Body, args ...any) error {
	if name == "" {
		return fmt.Errorf("%w: template name must not be empty", ErrArgument)
	}

	if body == nil {
		return fmt.Errorf("%w: template %q has no body", ErrArgument, name)
	}

	if _, exists := r.templates[name]; exists {
		return fmt.Errorf("%w: template %q already registered", ErrArgument, name)
	}

	r.templates[name] = &Template{Name: name, Body: body, Args: args}

	return nil
}

// Lookup returns a template by name.
func (r *Registry) Lookup(name string) (*Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Has returns true if a template with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Names returns all template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Instantiate builds a new rule from a template. Args are passed ahead of the
// template's stored arguments. The rule can replay other templates of r.
func (r *Registry) Instantiate(name string, args []any, opts ...Option) (*Rule, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	all := make([]Option, 0, len(opts)+2)
	all = append(all, opts...)
	all = append(all, WithRegistry(r), WithArgs(mergeArgs(args, tpl.Args)...))

	return New(tpl.Name, tpl.Body, all...)
}
