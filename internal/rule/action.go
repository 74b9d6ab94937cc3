package rule

//go:generate go tool stringer -type=Action -linecomment -output=action_string.go

// Action is an elementary resolved action. Markers compare by value.
type Action int

const (
	ActionPending  Action = iota // pending
	ActionCopy                   // copy
	ActionDiscard                // discard
	ActionDelegate               // delegate
)

func (Action) isEntry() {}

// ParseAction parses a marker name as produced by Action.String.
func ParseAction(s string) (Action, bool) {
	for a := ActionPending; a <= ActionDelegate; a++ {
		if a.String() == s {
			return a, true
		}
	}

	return 0, false
}

// IsFallback reports whether the action may be used as a table default.
func (a Action) IsFallback() bool {
	return a == ActionCopy || a == ActionDiscard
}
