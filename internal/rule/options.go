package rule

import (
	"go.uber.org/zap"

	"fieldmap/internal/model"
)

// Option configures rule construction.
type Option func(*options)

type options struct {
	registry    *Registry
	catalog     *model.Catalog
	logger      *zap.Logger
	parent      Scope
	args        []any
	source      string
	destination string
}

func defaultOptions() *options {
	return &options{logger: zap.NewNop()}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithRegistry sets the template registry used by Like and UsingTemplate.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithCatalog sets the schema catalog used for source/destination resolution.
func WithCatalog(c *model.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithLogger sets the logger. Builders log at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParent makes variables of an enclosing scope visible to the rule body.
func WithParent(s Scope) Option {
	return func(o *options) { o.parent = s }
}

// WithArgs sets the positional arguments passed to the rule body.
func WithArgs(args ...any) Option {
	return func(o *options) { o.args = append(o.args, args...) }
}

// WithSource requires the source schema to resolve to the named subclass.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithDestination requires the destination schema to resolve to the named subclass.
func WithDestination(name string) Option {
	return func(o *options) { o.destination = name }
}

// inherit returns the options a nested rule is built with.
func (o *options) inherit(parent Scope, args []any) []Option {
	return []Option{
		WithRegistry(o.registry),
		WithCatalog(o.catalog),
		WithLogger(o.logger),
		WithParent(parent),
		WithArgs(args...),
	}
}
