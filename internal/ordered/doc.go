// Package ordered provides an associative container that records, for every
// key, the path of keys leading from the root structure to the map holding it.
//
// A root Map owns an OrderTable. Storing a *Map inside another grafts it, and
// every map nested inside it, onto the receiver's table, so the whole tree
// shares one table:
//
//	root := ordered.New()
//	billing := ordered.New()
//	root.Set("billing", billing)
//	billing.Set("address", "1 Main St")
//
//	path, _ := root.Trace("billing")       // [billing]
//	path, _ = billing.Trace("address")     // [billing address]
//
// The table is intended for diagnostics (see the trace command); mapping rules
// never consult it.
package ordered
