package mapping

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fieldmap/internal/match"
	"fieldmap/internal/rule"
)

// TransformRegistry holds named transforms that rule files refer to.
type TransformRegistry struct {
	transforms map[string]rule.Transform
}

// NewTransformRegistry creates a new empty transform registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		transforms: make(map[string]rule.Transform),
	}
}

// DefaultTransforms returns a registry holding the builtin transforms:
//   - identity: the value unchanged
//   - string: the value formatted with fmt.Sprint
//   - upcase, downcase, trim: string case and whitespace
//   - int: a string or number converted to int
//   - present: true for non-nil values other than "" and false
func DefaultTransforms() *TransformRegistry {
	r := NewTransformRegistry()

	r.transforms["identity"] = func(v any) (any, error) { return v, nil }
	r.transforms["string"] = func(v any) (any, error) {
		if v == nil {
			return "", nil
		}

		return fmt.Sprint(v), nil
	}
	r.transforms["upcase"] = stringTransform(strings.ToUpper)
	r.transforms["downcase"] = stringTransform(strings.ToLower)
	r.transforms["trim"] = stringTransform(strings.TrimSpace)
	r.transforms["int"] = toInt
	r.transforms["present"] = func(v any) (any, error) {
		switch val := v.(type) {
		case nil:
			return false, nil
		case string:
			return val != "", nil
		case bool:
			return val, nil
		default:
			return true, nil
		}
	}

	return r
}

func stringTransform(fn func(string) string) rule.Transform {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}

		return fn(s), nil
	}
}

func toInt(v any) (any, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", val, err)
		}

		return n, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", v)
	}
}

// Register adds a transform. Names are unique.
func (r *TransformRegistry) Register(name string, fn rule.Transform) error {
	if name == "" {
		return errors.New("transform name must not be empty")
	}

	if fn == nil {
		return fmt.Errorf("transform %q is nil", name)
	}

	if _, exists := r.transforms[name]; exists {
		return fmt.Errorf("transform %q already registered", name)
	}

	r.transforms[name] = fn

	return nil
}

// Get returns a transform by name.
func (r *TransformRegistry) Get(name string) (rule.Transform, bool) {
	fn, ok := r.transforms[name]
	return fn, ok
}

// Has returns true if a transform with the given name exists.
func (r *TransformRegistry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *TransformRegistry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Suggest returns registered names similar to name.
func (r *TransformRegistry) Suggest(name string) []string {
	return match.Suggest(name, r.Names(), match.DefaultSuggestions)
}

// Clone returns a copy of the registry.
func (r *TransformRegistry) Clone() *TransformRegistry {
	c := NewTransformRegistry()
	for name, fn := range r.transforms {
		c.transforms[name] = fn
	}

	return c
}

// Chain composes transforms applied left to right.
func Chain(fns ...rule.Transform) rule.Transform {
	return func(v any) (any, error) {
		var err error

		for _, fn := range fns {
			v, err = fn(v)
			if err != nil {
				return nil, err
			}
		}

		return v, nil
	}
}

// BuildTransforms registers the file's transform chains into a copy of base.
// A chain may refer to chains declared before it.
func BuildTransforms(f *File, base *TransformRegistry) (*TransformRegistry, error) {
	reg := base.Clone()

	for _, def := range f.Transforms {
		fns := make([]rule.Transform, 0, len(def.Chain))

		for _, step := range def.Chain {
			fn, ok := reg.Get(step)
			if !ok {
				return nil, fmt.Errorf("transform %q: unknown transform %q", def.Name, step)
			}

			fns = append(fns, fn)
		}

		if err := reg.Register(def.Name, Chain(fns...)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
