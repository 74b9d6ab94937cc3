package rule

import (
	"slices"

	"fieldmap/internal/common"
)

// Field names a slot in a source or destination record schema.
// The empty Field means "no field".
type Field string

// String returns the field name.
func (f Field) String() string {
	return string(f)
}

// Direction selects one half of a field mapping.
type Direction int

const (
	// To is the destination side.
	To Direction = iota
	// From is the source side.
	From
)

// String returns "to" or "from".
func (d Direction) String() string {
	switch d {
	case To:
		return "to"
	case From:
		return "from"
	default:
		return common.UnknownStr
	}
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == To {
		return From
	}

	return To
}

// Status returns the builder status entered by declaring this direction.
func (d Direction) Status() Status {
	if d == To {
		return StatusTo
	}

	return StatusFrom
}

// Status is the builder's current declaration state.
type Status int

const (
	// StatusUnset is the cleared state; any transition out of it is legal.
	StatusUnset Status = iota
	// StatusReady accepts a new to/from declaration.
	StatusReady
	// StatusTo follows a destination-side declaration.
	StatusTo
	// StatusFrom follows a source-side declaration.
	StatusFrom
	// StatusThrough follows a derived-value declaration.
	StatusThrough
	// StatusUsing follows a delegation.
	StatusUsing
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusReady:
		return "ready"
	case StatusTo:
		return "to"
	case StatusFrom:
		return "from"
	case StatusThrough:
		return "through"
	case StatusUsing:
		return "using"
	default:
		return common.UnknownStr
	}
}

// Direction returns the direction a status declares, if any.
func (s Status) Direction() (Direction, bool) {
	switch s {
	case StatusTo:
		return To, true
	case StatusFrom:
		return From, true
	default:
		return 0, false
	}
}

// transitions lists the allowed next states per current state.
// States missing from the table may only return to ready.
var transitions = map[Status][]Status{
	StatusReady: {StatusTo, StatusFrom},
	StatusTo:    {StatusFrom, StatusThrough, StatusUsing, StatusReady},
	StatusFrom:  {StatusTo, StatusThrough, StatusReady},
}

var defaultTransitions = []Status{StatusReady}

// ValidTransition reports whether a builder in state from may move to state to.
// Every transition out of StatusUnset is valid.
func ValidTransition(from, to Status) bool {
	if from == StatusUnset {
		return true
	}

	allowed, ok := transitions[from]
	if !ok {
		allowed = defaultTransitions
	}

	return slices.Contains(allowed, to)
}

// Allowed returns the states reachable from the given state.
// Nil means unconstrained.
func Allowed(from Status) []Status {
	if from == StatusUnset {
		return nil
	}

	allowed, ok := transitions[from]
	if !ok {
		allowed = defaultTransitions
	}

	return slices.Clone(allowed)
}

// cursor is the builder's optional (status, field) pair.
// The zero value is the cleared state.
type cursor struct {
	status Status
	field  Field
}

func (c cursor) isSet() bool {
	return c.status != StatusUnset
}
