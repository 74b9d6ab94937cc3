package rule

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fieldmap/internal/match"
	"fieldmap/internal/model"
)

// Body declares a rule's mappings. It receives the builder and the positional
// arguments the rule was constructed with.
type Body func(b *Builder, args ...any)

// Builder is the declaration runtime handed to a rule body.
//
// Operations return the builder so declarations can be chained. The first
// failing operation records its error; later operations are no-ops and the
// error aborts construction in New.
type Builder struct {
	name     string
	strategy *Strategy
	cur      cursor
	scope    *varScope
	finder   *Finder
	router   *Route

	toModel, fromModel   *model.Schema
	toSource, fromSource *model.Schema

	opts *options
	log  *zap.Logger
	err  error
}

func newBuilder(name string, o *options) *Builder {
	return &Builder{
		name:     name,
		strategy: newStrategy(),
		cur:      cursor{status: StatusReady},
		scope:    newVarScope(o.parent),
		opts:     o,
		log:      o.logger.With(zap.String("rule", name)),
	}
}

// Name returns the rule name.
func (b *Builder) Name() string {
	return b.name
}

// BaseName returns the canonical snake_case rule name.
func (b *Builder) BaseName() string {
	return baseName(b.name)
}

// Status returns the current declaration state.
func (b *Builder) Status() Status {
	return b.cur.status
}

// CurrentField returns the field most recently named, or "" when none is active.
func (b *Builder) CurrentField() Field {
	return b.cur.field
}

// Err returns the first declaration error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Strategy returns the tables accumulated so far.
func (b *Builder) Strategy() *Strategy {
	return b.strategy
}

// Set stores a rule variable, visible to nested rules through their parent scope.
func (b *Builder) Set(name string, value any) *Builder {
	b.scope.vars[name] = value
	return b
}

// Lookup returns a rule variable, falling back to the enclosing rule's scope.
func (b *Builder) Lookup(name string) (any, bool) {
	return b.scope.Lookup(name)
}

// setStatus validates and commits a state change.
func (b *Builder) setStatus(status Status, field Field) error {
	if !ValidTransition(b.cur.status, status) {
		return &TransitionError{From: b.cur.status, To: status, Field: field}
	}

	b.log.Debug("transition",
		zap.Stringer("from", b.cur.status),
		zap.Stringer("to", status),
		zap.String("field", string(field)))

	b.cur = cursor{status: status, field: field}

	return nil
}

// clear resets the state without transition checking.
func (b *Builder) clear() {
	b.cur = cursor{}
}

func (b *Builder) forceReady() {
	b.cur = cursor{status: StatusReady}
}

// Abort records err as the declaration error unless one is already recorded.
// Bodies use it to reject their arguments.
func (b *Builder) Abort(err error) *Builder {
	if err == nil {
		return b
	}

	return b.fail(err)
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
		b.log.Debug("declaration failed", zap.Error(err))
	}

	return b
}

// To declares a destination-side field.
func (b *Builder) To(field Field) *Builder {
	return b.declare(To, field, nil)
}

// ToFunc declares a destination-side field with an inline transform.
func (b *Builder) ToFunc(field Field, fn Transform) *Builder {
	if fn == nil {
		return b.fail(fmt.Errorf("%w: to %q: nil transform", ErrArgument, field))
	}

	return b.declare(To, field, fn)
}

// From declares a source-side field.
func (b *Builder) From(field Field) *Builder {
	return b.declare(From, field, nil)
}

// FromFunc declares a source-side field with an inline transform.
func (b *Builder) FromFunc(field Field, fn Transform) *Builder {
	if fn == nil {
		return b.fail(fmt.Errorf("%w: from %q: nil transform", ErrArgument, field))
	}

	return b.declare(From, field, fn)
}

// declare implements To and From. A declaration pairs with a pending entry left
// on the opposite side by the previous declaration; otherwise it is recorded
// on its own side, Pending until paired.
func (b *Builder) declare(op Direction, field Field, fn Transform) *Builder {
	if b.err != nil {
		return b
	}

	if field == "" {
		return b.fail(fmt.Errorf("%w: %s requires a field", ErrArgument, op))
	}

	prev := b.cur.field
	if err := b.setStatus(op.Status(), field); err != nil {
		return b.fail(err)
	}

	own := b.strategy.Table(op)
	inverse := b.strategy.Table(op.Inverse())

	if e, ok := inverse.Lookup(field); ok && !IsPending(e) {
		return b.fail(fmt.Errorf("%w: %s action for %q is already defined", ErrDuplicateMapping, op.Inverse(), field))
	}

	if prev != "" && inverse.Has(prev) {
		if fn != nil {
			inverse.set(prev, Pair{Field: field, Transform: fn})
		} else {
			inverse.set(prev, Rename{Field: field})
		}

		b.log.Debug("resolved",
			zap.Stringer("direction", op.Inverse()),
			zap.String("field", string(prev)),
			zap.String("paired", string(field)))
	} else {
		if e, ok := own.Lookup(field); ok && !IsPending(e) {
			return b.fail(fmt.Errorf("%w: %s action for %q is already defined", ErrDuplicateMapping, op, field))
		}

		if fn != nil {
			own.set(field, fn)
		} else {
			own.set(field, ActionPending)
		}
	}

	// an inline transform completes the declaration
	if fn != nil {
		if err := b.setStatus(StatusReady, ""); err != nil {
			return b.fail(err)
		}
	}

	return b
}

// Through declares a derived value for the current field, computed by either
// the named method of the source schema or an inline transform.
func (b *Builder) Through(method string, fn Transform) *Builder {
	if b.err != nil {
		return b
	}

	if (method == "") == (fn == nil) {
		return b.fail(fmt.Errorf("%w: through takes a method name or a transform, not both or neither", ErrArgument))
	}

	field := b.cur.field
	if field == "" {
		return b.fail(&TransitionError{
			From:   b.cur.status,
			To:     StatusThrough,
			Reason: "through must follow a to or from declaration",
		})
	}

	if err := b.setStatus(StatusThrough, field); err != nil {
		return b.fail(err)
	}

	callable := fn
	if method != "" {
		m, err := b.sourceMethod(method)
		if err != nil {
			return b.fail(err)
		}

		callable = Transform(m)
	}

	b.strategy.to.set(field, Pair{Field: field, Transform: callable})

	return b
}

func (b *Builder) sourceMethod(name string) (model.Method, error) {
	schema := b.fromSource
	if schema == nil {
		schema = b.fromModel
	}

	if schema == nil {
		return nil, fmt.Errorf("%w: through %q needs a source schema", ErrUnresolvedModel, name)
	}

	m, ok := schema.Method(name)
	if !ok {
		return nil, fmt.Errorf("%w: source schema %s has no method %q%s",
			ErrUnresolvedModel, schema, name, didYouMean(match.Suggest(name, schema.MethodNames(), match.DefaultSuggestions)))
	}

	return m, nil
}

// Otherwise sets the default entry (ActionCopy or ActionDiscard) for fields
// with no explicit entry. It applies to the active direction, or to both
// directions when none is active.
func (b *Builder) Otherwise(action Action) *Builder {
	if b.err != nil {
		return b
	}

	if !action.IsFallback() {
		return b.fail(fmt.Errorf("%w: otherwise accepts copy or discard, got %s", ErrArgument, action))
	}

	if dir, ok := b.cur.status.Direction(); ok {
		b.strategy.Table(dir).setDefault(action)
		return b
	}

	b.strategy.to.setDefault(action)
	b.strategy.from.setDefault(action)

	return b
}

// Using installs a nested rule built from body at the current field.
func (b *Builder) Using(body Body, args ...any) *Builder {
	return b.using("body", body, args)
}

// UsingTemplate installs a nested rule built from a registered template at the
// current field. Args are passed ahead of the template's stored arguments.
func (b *Builder) UsingTemplate(name string, args ...any) *Builder {
	if b.err != nil {
		return b
	}

	tpl, err := b.template(name)
	if err != nil {
		return b.fail(err)
	}

	return b.using("template "+tpl.Name, tpl.Body, mergeArgs(args, tpl.Args))
}

func (b *Builder) using(label string, body Body, args []any) *Builder {
	if b.err != nil {
		return b
	}

	if body == nil {
		return b.fail(fmt.Errorf("%w: using requires a body", ErrArgument))
	}

	dir, ok := b.cur.status.Direction()
	if !ok || b.cur.field == "" {
		return b.fail(&TransitionError{
			From:   b.cur.status,
			To:     StatusUsing,
			Reason: "using must follow a to or from declaration",
		})
	}

	field := b.cur.field

	nested, err := New(b.name+"."+string(field), body, b.opts.inherit(b.scope, args)...)
	if err != nil {
		return b.fail(fmt.Errorf("using %s for %q: %w", label, field, err))
	}

	b.strategy.Table(dir).set(field, newDelegate(nested, b.scope))
	b.log.Debug("delegated", zap.String("field", string(field)), zap.String("nested", nested.Name()))

	if err := b.setStatus(StatusReady, ""); err != nil {
		return b.fail(err)
	}

	return b
}

// Delete marks a source field as discarded. With an empty field it discards
// the current field, which must have been declared with From. The builder is
// back in the ready state afterwards whether or not the call succeeded.
func (b *Builder) Delete(field Field) *Builder {
	defer b.forceReady()

	if b.err != nil {
		return b
	}

	target := field
	if target == "" {
		target = b.cur.field
		if target == "" || !b.strategy.from.Has(target) {
			return b.fail(&TransitionError{
				From:   b.cur.status,
				To:     StatusReady,
				Reason: "delete must come after a 'from' action on a field",
			})
		}
	}

	b.strategy.from.set(target, ActionDiscard)

	return b
}

// Find records the lookup used to locate an existing destination record.
func (b *Builder) Find(m Matcher, args ...any) *Builder {
	if b.err != nil {
		return b
	}

	if m == nil {
		return b.fail(fmt.Errorf("%w: find requires a matcher", ErrArgument))
	}

	b.finder = &Finder{Args: args, Match: m}

	return b
}

// Destination records a routing function. With a field it is also installed
// as that field's destination-side entry.
func (b *Builder) Destination(field Field, router Router) *Builder {
	if b.err != nil {
		return b
	}

	if router == nil {
		return b.fail(fmt.Errorf("%w: destination requires a router", ErrArgument))
	}

	route := Route{Field: field, Router: router}
	b.router = &route

	if field != "" {
		b.strategy.to.set(field, route)
	}

	return b
}

// Like replays a registered template against this builder. Args are passed
// ahead of the template's stored arguments.
func (b *Builder) Like(name string, args ...any) *Builder {
	if b.err != nil {
		return b
	}

	tpl, err := b.template(name)
	if err != nil {
		return b.fail(err)
	}

	b.log.Debug("replaying template", zap.String("template", tpl.Name))

	return b.modify(tpl.Body, mergeArgs(args, tpl.Args))
}

// Done ends the current declaration and returns to the ready state.
func (b *Builder) Done() *Builder {
	if b.err != nil || b.cur.status == StatusReady {
		return b
	}

	if err := b.setStatus(StatusReady, ""); err != nil {
		return b.fail(err)
	}

	return b
}

// modify runs a body against this builder, then clears the state.
func (b *Builder) modify(body Body, args []any) *Builder {
	body(b, args...)
	b.clear()

	return b
}

func (b *Builder) template(name string) (*Template, error) {
	if b.opts.registry == nil {
		return nil, fmt.Errorf("%w: %q (no registry)", ErrUnknownTemplate, name)
	}

	tpl, ok := b.opts.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownTemplate, name,
			didYouMean(match.Suggest(name, b.opts.registry.Names(), match.DefaultSuggestions)))
	}

	return tpl, nil
}

// ToModel sets the destination base schema and tries to resolve the
// destination to its subclass named after the rule.
func (b *Builder) ToModel(s *model.Schema) *Builder {
	return b.assignModel(To, s)
}

// FromModel sets the source base schema and tries to resolve the source to its
// subclass named after the rule.
func (b *Builder) FromModel(s *model.Schema) *Builder {
	return b.assignModel(From, s)
}

// ToSource resolves the destination to the named subclass of the destination model.
func (b *Builder) ToSource(name string) *Builder {
	return b.resolveSource(To, name)
}

// FromSource resolves the source to the named subclass of the source model.
func (b *Builder) FromSource(name string) *Builder {
	return b.resolveSource(From, name)
}

func (b *Builder) assignModel(d Direction, s *model.Schema) *Builder {
	if b.err != nil {
		return b
	}

	if s == nil {
		return b.fail(fmt.Errorf("%w: %s model must not be nil", ErrArgument, d))
	}

	source, _ := b.subclass(s, b.BaseName())

	if d == To {
		b.toModel, b.toSource = s, source
	} else {
		b.fromModel, b.fromSource = s, source
	}

	return b
}

func (b *Builder) resolveSource(d Direction, name string) *Builder {
	if b.err != nil {
		return b
	}

	base := b.fromModel
	if d == To {
		base = b.toModel
	}

	if base == nil {
		return b.fail(fmt.Errorf("%w: no %s model set for rule %q", ErrUnresolvedModel, d, b.name))
	}

	source, ok := b.subclass(base, name)
	if !ok {
		var hint string
		if b.opts.catalog != nil {
			hint = didYouMean(b.opts.catalog.Suggest(name))
		}

		return b.fail(fmt.Errorf("%w: couldn't find %s model subclass %q of %s for rule %q%s",
			ErrUnresolvedModel, d, name, base, b.name, hint))
	}

	if d == To {
		b.toSource = source
	} else {
		b.fromSource = source
	}

	return b
}

func (b *Builder) subclass(base *model.Schema, name string) (*model.Schema, bool) {
	if b.opts.catalog == nil {
		return nil, false
	}

	return b.opts.catalog.Subclass(base, name)
}

// requireSources enforces the WithSource / WithDestination options after the
// body ran.
func (b *Builder) requireSources() {
	want := []struct {
		dir  Direction
		name string
		cur  *model.Schema
	}{
		{To, b.opts.destination, b.toSource},
		{From, b.opts.source, b.fromSource},
	}

	for _, w := range want {
		if w.name == "" {
			continue
		}

		if w.cur != nil && w.cur.BaseName() == match.SnakeCase(w.name) {
			continue
		}

		b.resolveSource(w.dir, w.name)
	}
}

func (b *Builder) rule() *Rule {
	return &Rule{
		name:              b.name,
		strategy:          b.strategy,
		scope:             b.scope,
		finder:            b.finder,
		router:            b.router,
		sourceModel:       b.fromModel,
		destinationModel:  b.toModel,
		sourceSchema:      b.fromSource,
		destinationSchema: b.toSource,
	}
}

func mergeArgs(args, stored []any) []any {
	merged := make([]any, 0, len(args)+len(stored))
	merged = append(merged, args...)

	return append(merged, stored...)
}

func didYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	return " (did you mean " + strings.Join(suggestions, ", ") + "?)"
}

func baseName(name string) string {
	return match.SnakeCase(name)
}
