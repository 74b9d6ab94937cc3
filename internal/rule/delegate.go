package rule

// Delegate is a nested rule installed in place of a simple action.
//
// The wrapped rule is fixed at construction; there is no way to rebind it.
// The parent scope is only read, never written.
type Delegate struct {
	target *Rule
	parent Scope
}

func newDelegate(target *Rule, parent Scope) *Delegate {
	return &Delegate{target: target, parent: parent}
}

func (*Delegate) isEntry() {}

// Target returns the wrapped rule.
func (d *Delegate) Target() *Rule {
	return d.target
}

// Parent returns the enclosing rule's scope.
func (d *Delegate) Parent() Scope {
	return d.parent
}

// Name returns the nested rule's name.
func (d *Delegate) Name() string {
	return d.target.Name()
}

// Strategy returns the nested rule's tables.
func (d *Delegate) Strategy() *Strategy {
	return d.target.Strategy()
}

// Resolve resolves a field against the nested rule.
func (d *Delegate) Resolve(dir Direction, f Field) (Entry, bool) {
	return d.target.Resolve(dir, f)
}

// Finder returns the nested rule's lookup specification.
func (d *Delegate) Finder() *Finder {
	return d.target.Finder()
}

// Router returns the nested rule's routing declaration.
func (d *Delegate) Router() (Route, bool) {
	return d.target.Router()
}

// Lookup resolves a variable in the nested rule, then in the parent scope.
func (d *Delegate) Lookup(name string) (any, bool) {
	if v, ok := d.target.Lookup(name); ok {
		return v, true
	}

	if d.parent != nil {
		return d.parent.Lookup(name)
	}

	return nil, false
}
