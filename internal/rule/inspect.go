package rule

import (
	"fmt"

	"fieldmap/internal/diagnostic"
)

// Inspect reports fields left Pending, the table defaults and the delegates of
// a finished rule, descending into nested rules.
func Inspect(r *Rule) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	inspect(r, "", &res)

	return res
}

func inspect(r *Rule, prefix string, res *diagnostic.Diagnostics) {
	for _, dir := range []Direction{To, From} {
		table := r.Table(dir)

		if action, ok := table.Default(); ok {
			res.AddInfo("default_action",
				fmt.Sprintf("%s fields without an entry resolve as %s", dir, action), r.Name(), "")
		}

		for _, f := range table.Fields() {
			path := prefix + string(f)
			e, _ := table.Lookup(f)

			switch v := e.(type) {
			case Action:
				if v == ActionPending {
					res.AddWarning("pending_field",
						fmt.Sprintf("%s field is declared but never paired", dir), r.Name(), path)
				}
			case *Delegate:
				res.AddInfo("delegate",
					fmt.Sprintf("%s field delegates to rule %s", dir, v.Name()), r.Name(), path)
				inspect(v.Target(), path+".", res)
			}
		}
	}
}
