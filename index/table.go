// Package index builds per-type member lookup tables.
//
// Each category of a type gets a Table: the members in reported order, a
// definitive name map and two shortcut tables, one slot per name length and
// one bucket per name hash. The shortcuts are filled first writer wins, so
// they only accept an exact match or prove absence; anything else falls
// through to the map.
package index

import (
	"github.com/Konsultn-Engineering/fastrefl/utils"
)

// Named is implemented by member descriptors.
type Named interface {
	comparable
	Name() string
}

// Table resolves member names for one category of one type. It is immutable
// after New and safe for concurrent reads.
type Table[D Named] struct {
	all      []D
	byName   map[string]D
	byLength []D
	byHash   [utils.HashBuckets]D
}

// New builds a table over members in the given order.
func New[D Named](members []D) *Table[D] {
	t := &Table[D]{
		all:    members,
		byName: make(map[string]D, len(members)),
	}

	longest := 0
	for _, m := range members {
		longest = max(longest, len(m.Name()))
	}
	t.byLength = make([]D, longest)

	var zero D
	for _, m := range members {
		name := m.Name()
		if _, ok := t.byName[name]; !ok {
			t.byName[name] = m
		}
		if name == "" {
			continue
		}
		if i := len(name) - 1; t.byLength[i] == zero {
			t.byLength[i] = m
		}
		if b := utils.NameBucket(name); t.byHash[b] == zero {
			t.byHash[b] = m
		}
	}
	return t
}

// Get returns the member called name and whether it exists.
func (t *Table[D]) Get(name string) (D, bool) {
	var zero D

	// Length slot: out of range proves absence
	i := len(name) - 1
	if i < 0 || i >= len(t.byLength) {
		return zero, false
	}
	if m := t.byLength[i]; m != zero && m.Name() == name {
		return m, true
	}

	// Hash bucket: empty proves absence
	m := t.byHash[utils.NameBucket(name)]
	if m == zero {
		return zero, false
	}
	if m.Name() == name {
		return m, true
	}

	m, ok := t.byName[name]
	return m, ok
}

// All returns the members in reported order. Callers must not modify it.
func (t *Table[D]) All() []D {
	return t.all
}

func (t *Table[D]) Len() int {
	return len(t.all)
}
