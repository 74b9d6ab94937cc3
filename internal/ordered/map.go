package ordered

import (
	"reflect"
	"slices"
)

// Map is an associative structure with unique string keys that keeps its
// keys' paths in a shared OrderTable. Keys iterate in insertion order.
//
// A Map is not safe for concurrent mutation; only the shared table is guarded.
type Map struct {
	keys   []string
	values map[string]any
	order  *OrderTable
}

// New creates a root map with its own order table.
func New() *Map {
	m := &Map{values: make(map[string]any)}
	m.order = newOrderTable(m)

	return m
}

// Order returns the order table shared by the map's tree.
func (m *Map) Order() *OrderTable {
	return m.order
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// Get returns the value stored at key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value at key and records the key's path from the root.
//
// A *Map value is grafted onto this map's order table together with every map
// nested inside it, whatever table it used before.
func (m *Map) Set(key string, value any) {
	old, existed := m.values[key]

	if nested, ok := value.(*Map); ok {
		nested.graft(m.order, make(map[*Map]bool))
	}

	if !existed {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value

	m.storeOrder(key)

	if prev, ok := old.(*Map); ok && existed && prev != value {
		prev.restore(make(map[*Map]bool))
	}

	if nested, ok := value.(*Map); ok {
		nested.restore(make(map[*Map]bool))
	}
}

// Delete removes key and its recorded path. Paths recorded below a nested map
// stored at key are removed as well, unless that map is still reachable
// through another key.
func (m *Map) Delete(key string) {
	v, ok := m.values[key]
	if !ok {
		return
	}

	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })

	m.order.remove(key, m)

	if nested, ok := v.(*Map); ok {
		nested.restore(make(map[*Map]bool))
	}
}

// Trace returns the recorded path of key in this map.
func (m *Map) Trace(key string) ([]string, bool) {
	return m.order.Lookup(key, m)
}

// Path searches the tree below m, depth first in key insertion order, for
// target. *Map targets match by identity, other values by deep equality.
//
// If m itself is the target the result is (nil, true). Otherwise the keys
// leading to the first match are returned, or (nil, false) if nothing matches.
func (m *Map) Path(target any) ([]string, bool) {
	return m.PathFunc(func(v any) bool { return same(v, target) })
}

// PathFunc is like Path but matches values with pred.
func (m *Map) PathFunc(pred func(any) bool) ([]string, bool) {
	if pred(m) {
		return nil, true
	}

	return m.search(pred, map[*Map]bool{m: true})
}

// search visits every map at most once, so cyclic trees terminate.
func (m *Map) search(pred func(any) bool, seen map[*Map]bool) ([]string, bool) {
	for _, k := range m.keys {
		v := m.values[k]
		if pred(v) {
			return []string{k}, true
		}

		nested, ok := v.(*Map)
		if !ok || seen[nested] {
			continue
		}

		seen[nested] = true

		if rest, found := nested.search(pred, seen); found {
			return append([]string{k}, rest...), true
		}
	}

	return nil, false
}

// storeOrder recomputes the path of key from the table root. Keys of a map
// that is no longer reachable from the root lose their entry.
func (m *Map) storeOrder(key string) {
	prefix, found := m.order.root.Path(m)
	if !found {
		m.order.remove(key, m)
		return
	}

	path := make([]string, 0, len(prefix)+1)
	path = append(path, prefix...)
	m.order.store(key, m, append(path, key))
}

// graft rebinds m and every map below it to table t.
func (m *Map) graft(t *OrderTable, seen map[*Map]bool) {
	if seen[m] {
		return
	}

	seen[m] = true
	m.order = t

	for _, k := range m.keys {
		if nested, ok := m.values[k].(*Map); ok {
			nested.graft(t, seen)
		}
	}
}

// restore recomputes the paths of every key below m. Maps that are no longer
// reachable from the root lose their entries; maps still reachable through
// another key keep them.
func (m *Map) restore(seen map[*Map]bool) {
	if seen[m] {
		return
	}

	seen[m] = true

	for _, k := range m.keys {
		m.storeOrder(k)

		if nested, ok := m.values[k].(*Map); ok {
			nested.restore(seen)
		}
	}
}

func same(v, target any) bool {
	tm, targetIsMap := target.(*Map)
	vm, valueIsMap := v.(*Map)

	if targetIsMap || valueIsMap {
		return targetIsMap && valueIsMap && tm == vm
	}

	return reflect.DeepEqual(v, target)
}
