package route

import (
	"net/http"

	"github.com/xy-planning-network/signpost/manifest"
)

// An Entry is one route in a Table.
type Entry struct {
	manifest.Descriptor

	// Builtin marks routes registered with Builder.Builtin rather than from a manifest.
	Builtin bool

	Handler http.Handler
}

// A Table maps paths to handlers.
// It is read-only once built.
type Table struct {
	entries []Entry
	byPath  map[string]int
}

// Entries lists every route in registration order: built-ins first, then pages in manifest order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}

	es := make([]Entry, len(t.entries))
	copy(es, t.entries)

	return es
}

// Pages lists the descriptors bound from manifests, in manifest order.
func (t *Table) Pages() manifest.Manifest {
	m := make(manifest.Manifest, 0)
	if t == nil {
		return m
	}

	for _, e := range t.entries {
		if !e.Builtin {
			m = append(m, e.Descriptor)
		}
	}

	return m
}

// Lookup retrieves the route registered at path.
func (t *Table) Lookup(path string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	i, ok := t.byPath[path]
	if !ok {
		return Entry{}, false
	}

	return t.entries[i], true
}

// Len is the number of routes, built-ins included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}
