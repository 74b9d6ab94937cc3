package rule

// Scope resolves rule-level variables by name.
type Scope interface {
	Lookup(name string) (any, bool)
}

// varScope holds a rule's variables. It is shared between a builder and the
// rule it produces, so nested rules see values set later in the parent body.
type varScope struct {
	vars   map[string]any
	parent Scope
}

func newVarScope(parent Scope) *varScope {
	return &varScope{vars: make(map[string]any), parent: parent}
}

// Lookup returns the variable from this scope, falling back to the parent.
func (s *varScope) Lookup(name string) (any, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}

	if s.parent != nil {
		return s.parent.Lookup(name)
	}

	return nil, false
}
