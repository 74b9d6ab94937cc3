package rule

import (
	"fmt"

	"go.uber.org/zap"

	"fieldmap/internal/model"
)

// Mapping is the read-only view of a finished rule consumed by execution code.
type Mapping interface {
	Name() string
	Strategy() *Strategy
	Resolve(d Direction, f Field) (Entry, bool)
	Finder() *Finder
	Router() (Route, bool)
	Lookup(name string) (any, bool)
}

var (
	_ Mapping = (*Rule)(nil)
	_ Mapping = (*Delegate)(nil)
)

// Rule is an immutable mapping description produced by running a body.
type Rule struct {
	name     string
	strategy *Strategy
	scope    *varScope
	finder   *Finder
	router   *Route

	sourceModel, destinationModel   *model.Schema
	sourceSchema, destinationSchema *model.Schema
}

// New builds a rule by running body eagerly. Any declaration error aborts
// construction and is returned.
func New(name string, body Body, opts ...Option) (*Rule, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: rule name must not be empty", ErrArgument)
	}

	if body == nil {
		return nil, fmt.Errorf("%w: rule %q has no body", ErrArgument, name)
	}

	o := buildOptions(opts)
	b := newBuilder(name, o)

	b.log.Debug("building rule", zap.Int("args", len(o.args)))
	body(b, o.args...)
	b.requireSources()

	if b.err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, b.err)
	}

	return b.rule(), nil
}

// Name returns the rule name.
func (r *Rule) Name() string {
	return r.name
}

// BaseName returns the canonical snake_case rule name.
func (r *Rule) BaseName() string {
	return baseName(r.name)
}

// Strategy returns the resolution tables.
func (r *Rule) Strategy() *Strategy {
	return r.strategy
}

// Table returns the table of one direction.
func (r *Rule) Table(d Direction) *Table {
	return r.strategy.Table(d)
}

// Resolve returns the entry for a field, applying the table default.
func (r *Rule) Resolve(d Direction, f Field) (Entry, bool) {
	return r.strategy.Table(d).Resolve(f)
}

// Finder returns the lookup specification, or nil.
func (r *Rule) Finder() *Finder {
	return r.finder
}

// Router returns the routing declaration, if any.
func (r *Rule) Router() (Route, bool) {
	if r.router == nil {
		return Route{}, false
	}

	return *r.router, true
}

// Lookup returns a rule variable, falling back to the enclosing scope.
func (r *Rule) Lookup(name string) (any, bool) {
	return r.scope.Lookup(name)
}

// SourceModel returns the source base schema, or nil.
func (r *Rule) SourceModel() *model.Schema {
	return r.sourceModel
}

// DestinationModel returns the destination base schema, or nil.
func (r *Rule) DestinationModel() *model.Schema {
	return r.destinationModel
}

// SourceSchema returns the resolved source subclass, or nil.
func (r *Rule) SourceSchema() *model.Schema {
	return r.sourceSchema
}

// DestinationSchema returns the resolved destination subclass, or nil.
func (r *Rule) DestinationSchema() *model.Schema {
	return r.destinationSchema
}
