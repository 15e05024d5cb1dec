package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Bounded is a size-limited LRU keyed cache for values that are cheap to
// rebuild, such as conversion plans.
type Bounded[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	mu    sync.Mutex
}

// NewBounded returns a cache holding at most size entries. A non-positive size
// falls back to 128.
func NewBounded[K comparable, V any](size int) *Bounded[K, V] {
	if size <= 0 {
		size = 128
	}
	c, _ := lru.New[K, V](size)
	return &Bounded[K, V]{cache: c}
}

// GetOrCreate returns the cached value for key, building and caching it with
// create on a miss. Errors from create are not cached.
func (b *Bounded[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	// Fast path: lru.Cache is internally synchronized
	if v, ok := b.cache.Get(key); ok {
		return v, nil
	}

	// Slow path: build once per key
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := b.cache.Get(key); ok {
		return v, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	b.cache.Add(key, v)
	return v, nil
}

func (b *Bounded[K, V]) Len() int {
	return b.cache.Len()
}

// Purge drops every entry.
func (b *Bounded[K, V]) Purge() {
	b.cache.Purge()
}
