package rule

import (
	"fmt"
	"slices"
)

// Entry is a resolved strategy-table entry. The set of implementations is closed:
// Action, Transform, Pair, Rename, Route and *Delegate.
type Entry interface {
	isEntry()
}

// Transform computes a destination value from a source value.
type Transform func(value any) (any, error)

func (Transform) isEntry() {}

// Router picks the destination for a record.
type Router func(record any) (any, error)

// Matcher locates an existing destination record for the given candidate.
type Matcher func(candidate any, args ...any) bool

// Pair resolves a field through its paired field and a transform.
type Pair struct {
	Field     Field
	Transform Transform
}

func (Pair) isEntry() {}

// Rename resolves a field by plain copy from (or to) the named paired field.
type Rename struct {
	Field Field
}

func (Rename) isEntry() {}

// Route is a routing function installed for a specific destination field.
type Route struct {
	Field  Field
	Router Router
}

func (Route) isEntry() {}

// Finder is the lookup specification recorded by Find.
type Finder struct {
	Args  []any
	Match Matcher
}

// IsPending reports whether e is the Pending marker.
func IsPending(e Entry) bool {
	a, ok := e.(Action)
	return ok && a == ActionPending
}

// ActionOf returns the elementary action of marker and delegate entries.
func ActionOf(e Entry) (Action, bool) {
	switch v := e.(type) {
	case Action:
		return v, true
	case *Delegate:
		return ActionDelegate, true
	default:
		return 0, false
	}
}

// Describe returns a short human-readable form of an entry.
func Describe(e Entry) string {
	switch v := e.(type) {
	case nil:
		return "<none>"
	case Action:
		return v.String()
	case Transform:
		return "transform"
	case Pair:
		return fmt.Sprintf("{%s: transform}", v.Field)
	case Rename:
		return fmt.Sprintf("%q", string(v.Field))
	case Route:
		return fmt.Sprintf("route(%s)", v.Field)
	case *Delegate:
		return fmt.Sprintf("delegate(%s)", v.Name())
	default:
		return fmt.Sprintf("%T", e)
	}
}

// Table holds the resolved entries of one direction, in declaration order.
type Table struct {
	entries     map[Field]Entry
	fields      []Field
	fallback    Action
	hasFallback bool
}

func newTable() *Table {
	return &Table{entries: make(map[Field]Entry)}
}

func (t *Table) set(f Field, e Entry) {
	if _, ok := t.entries[f]; !ok {
		t.fields = append(t.fields, f)
	}

	t.entries[f] = e
}

func (t *Table) setDefault(a Action) {
	t.fallback = a
	t.hasFallback = true
}

// Lookup returns the explicit entry for a field.
func (t *Table) Lookup(f Field) (Entry, bool) {
	e, ok := t.entries[f]
	return e, ok
}

// Has returns true if the field has an explicit entry.
func (t *Table) Has(f Field) bool {
	_, ok := t.entries[f]
	return ok
}

// Resolve returns the explicit entry for a field, or the table default.
func (t *Table) Resolve(f Field) (Entry, bool) {
	if e, ok := t.entries[f]; ok {
		return e, true
	}

	if t.hasFallback {
		return t.fallback, true
	}

	return nil, false
}

// Default returns the default entry applied to fields with no explicit entry.
func (t *Table) Default() (Action, bool) {
	return t.fallback, t.hasFallback
}

// Fields returns the explicitly declared fields in declaration order.
func (t *Table) Fields() []Field {
	return slices.Clone(t.fields)
}

// Len returns the number of explicit entries.
func (t *Table) Len() int {
	return len(t.fields)
}

// Pending returns the fields still holding the Pending marker.
func (t *Table) Pending() []Field {
	var pending []Field

	for _, f := range t.fields {
		if IsPending(t.entries[f]) {
			pending = append(pending, f)
		}
	}

	return pending
}

// Strategy is the per-direction resolution table produced by a rule.
type Strategy struct {
	to   *Table
	from *Table
}

func newStrategy() *Strategy {
	return &Strategy{to: newTable(), from: newTable()}
}

// Table returns the table for a direction.
func (s *Strategy) Table(d Direction) *Table {
	if d == To {
		return s.to
	}

	return s.from
}

// To returns the destination-side table.
func (s *Strategy) To() *Table {
	return s.to
}

// From returns the source-side table.
func (s *Strategy) From() *Table {
	return s.from
}

// Pending reports whether any Pending marker remains on either side.
func (s *Strategy) Pending() bool {
	return len(s.to.Pending()) > 0 || len(s.from.Pending()) > 0
}
