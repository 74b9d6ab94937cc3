package rule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition indicates an operation was attempted in a state that forbids it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDuplicateMapping indicates a field is already resolved on the opposite direction.
	ErrDuplicateMapping = errors.New("duplicate mapping")

	// ErrUnresolvedModel indicates a named source or destination schema could not be found.
	ErrUnresolvedModel = errors.New("unresolved model")

	// ErrUnknownTemplate indicates a rule template name was never registered.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrArgument indicates a malformed call shape.
	ErrArgument = errors.New("invalid argument")
)

// TransitionError describes a rejected builder state change.
type TransitionError struct {
	// From is the state the builder was in.
	From Status
	// To is the state that was requested.
	To Status
	// Field is the field the transition was requested for, if any.
	Field Field
	// Reason optionally replaces the generic message.
	Reason string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrInvalidTransition, e.Reason)
	}

	if e.Field != "" {
		return fmt.Sprintf("%s: can't go from %s to %s (field %q)", ErrInvalidTransition, e.From, e.To, e.Field)
	}

	return fmt.Sprintf("%s: can't go from %s to %s", ErrInvalidTransition, e.From, e.To)
}

// Is reports whether target is ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
