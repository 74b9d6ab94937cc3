package ordered

import (
	"slices"
	"strings"
	"sync"
)

// OrderTable maps (key, owning map) pairs to the path of keys from the root
// map to that key. All maps of one tree share a single table.
type OrderTable struct {
	mu    sync.Mutex
	root  *Map
	paths map[slot][]string
}

// slot identifies a key within a specific map.
type slot struct {
	key   string
	owner *Map
}

// Entry is one recorded path, as returned by Entries.
type Entry struct {
	Key  string
	Path []string
}

func newOrderTable(root *Map) *OrderTable {
	return &OrderTable{root: root, paths: make(map[slot][]string)}
}

// Root returns the map the table was created for.
func (t *OrderTable) Root() *Map {
	return t.root
}

// Lookup returns the recorded path of key inside owner.
func (t *OrderTable) Lookup(key string, owner *Map) ([]string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.paths[slot{key, owner}]
	if !ok {
		return nil, false
	}

	return slices.Clone(p), true
}

// Len returns the number of recorded paths.
func (t *OrderTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.paths)
}

// Entries returns every recorded path, sorted by path.
func (t *OrderTable) Entries() []Entry {
	t.mu.Lock()

	entries := make([]Entry, 0, len(t.paths))
	for s, p := range t.paths {
		entries = append(entries, Entry{Key: s.key, Path: slices.Clone(p)})
	}

	t.mu.Unlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := slices.Compare(a.Path, b.Path); c != 0 {
			return c
		}

		return strings.Compare(a.Key, b.Key)
	})

	return entries
}

// store replaces the path recorded for (key, owner). A nil path only removes
// the stale entry.
func (t *OrderTable) store(key string, owner *Map, path []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := slot{key, owner}
	delete(t.paths, s)

	if path != nil {
		t.paths[s] = path
	}
}

func (t *OrderTable) remove(key string, owner *Map) {
	t.store(key, owner, nil)
}
