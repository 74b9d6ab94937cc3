// Package rule implements declarative field-mapping rules.
//
// A rule describes, field by field, how a source record schema maps onto a
// destination record schema. Its body runs once, eagerly, against a Builder:
//
//	r, err := rule.New("users", func(b *rule.Builder, _ ...any) {
//		b.To("full_name").From("name")
//		b.To("active").FromFunc("status", enabled)
//		b.From("password").Delete("")
//		b.Otherwise(rule.ActionCopy)
//	})
//
// # Declaration order
//
// Declarations are checked against a small state machine:
//
//	ready -> to | from
//	to    -> from | through | using | ready
//	from  -> to | through | ready
//	*     -> ready
//
// # Strategy tables
//
// The finished rule holds one Table per Direction. A to declaration followed
// by a from declaration (or the reverse) resolves into a single entry on the
// side declared first: a Rename, or a Pair when the second declaration carries
// a transform. A declaration left unpaired stays ActionPending.
//
// Entries are one of:
//   - Action markers: ActionPending, ActionCopy, ActionDiscard
//   - Transform: an inline transform
//   - Pair: paired field plus transform
//   - Rename: paired field, plain copy
//   - Route: routing function for a destination field
//   - *Delegate: a nested rule
//
// # Templates
//
// A Registry stores named bodies. Like replays one against the current
// builder; UsingTemplate and Registry.Instantiate build fresh rules from one.
package rule
