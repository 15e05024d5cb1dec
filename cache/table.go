package cache

import (
	"sync"
)

// Table is a read-mostly map guarded by a RWMutex. It backs registration
// tables that are written during init and read while compiling entries, never
// on a per-call hot path.
type Table[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{
		data: make(map[K]V),
	}
}

func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (t *Table[K, V]) Set(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[key] = value
}

func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}
