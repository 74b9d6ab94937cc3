package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldRef is a parsed field reference from a rule file. It is either a plain
// field name or a reference to the body's arguments:
//   - "$1", "$2", ...: the argument at that (1-based) position
//   - "$*": every argument (delete only)
type FieldRef struct {
	Name    string
	Arg     int
	AllArgs bool
}

// IsArg returns true if the reference names body arguments.
func (f FieldRef) IsArg() bool {
	return f.Arg > 0 || f.AllArgs
}

// String returns the reference as written.
func (f FieldRef) String() string {
	switch {
	case f.AllArgs:
		return "$*"
	case f.Arg > 0:
		return "$" + strconv.Itoa(f.Arg)
	default:
		return f.Name
	}
}

// ParseField parses a field reference.
func ParseField(s string) (FieldRef, error) {
	if s == "" {
		return FieldRef{}, errors.New("empty field")
	}

	if rest, ok := strings.CutPrefix(s, "$"); ok {
		if rest == "*" {
			return FieldRef{AllArgs: true}, nil
		}

		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return FieldRef{}, fmt.Errorf("invalid argument reference %q: expected $1, $2, ... or $*", s)
		}

		return FieldRef{Arg: n}, nil
	}

	if !isValidIdent(s) {
		return FieldRef{}, fmt.Errorf("invalid field %q: invalid identifier", s)
	}

	return FieldRef{Name: s}, nil
}

// Expand resolves the reference against body arguments. Plain names expand
// to themselves.
func (f FieldRef) Expand(args []any) ([]string, error) {
	switch {
	case f.AllArgs:
		fields := make([]string, 0, len(args))
		for _, a := range args {
			fields = append(fields, fmt.Sprint(a))
		}

		return fields, nil
	case f.Arg > 0:
		if f.Arg > len(args) {
			return nil, fmt.Errorf("argument %s out of range: body has %d argument(s)", f, len(args))
		}

		return []string{fmt.Sprint(args[f.Arg-1])}, nil
	default:
		return []string{f.Name}, nil
	}
}

// expandField resolves a single-field reference.
func expandField(s string, args []any) (string, error) {
	ref, err := ParseField(s)
	if err != nil {
		return "", err
	}

	if ref.AllArgs {
		return "", fmt.Errorf("%s can only be used with delete", ref)
	}

	fields, err := ref.Expand(args)
	if err != nil {
		return "", err
	}

	return fields[0], nil
}

// expandArgs substitutes argument references among step arguments.
func expandArgs(values, args []any) ([]any, error) {
	out := make([]any, 0, len(values))

	for _, v := range values {
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(s, "$") {
			out = append(out, v)
			continue
		}

		ref, err := ParseField(s)
		if err != nil {
			return nil, err
		}

		if ref.AllArgs {
			out = append(out, args...)
			continue
		}

		if ref.Arg > len(args) {
			return nil, fmt.Errorf("argument %s out of range: body has %d argument(s)", ref, len(args))
		}

		out = append(out, args[ref.Arg-1])
	}

	return out, nil
}

// isValidIdent checks if a string is a valid field identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			// Subsequent characters can be letter, digit, or underscore
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
