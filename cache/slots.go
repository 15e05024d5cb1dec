package cache

import (
	"sync"
	"sync/atomic"
)

// MaxIndex is the largest slot index that can ever be assigned (26 bits).
// Index 0 is reserved to mean "unassigned".
const MaxIndex uint32 = 1<<26 - 1

// Tag holds the slot index assigned to one descriptor. The zero value is
// unassigned. Descriptors embed a Tag so the slot lookup is a field load.
type Tag struct {
	idx atomic.Uint32
}

// Index returns the assigned slot or 0.
func (t *Tag) Index() uint32 {
	return t.idx.Load()
}

// Allocator hands out slot indices from a bounded space with a single atomic
// add. Indices are never reused.
type Allocator struct {
	next  atomic.Uint32
	limit uint32
}

// NewAllocator returns an allocator that assigns indices in [1, limit].
// A limit of 0 or above MaxIndex is clamped to MaxIndex.
func NewAllocator(limit uint32) *Allocator {
	if limit == 0 || limit > MaxIndex {
		limit = MaxIndex
	}
	return &Allocator{limit: limit}
}

// Assign returns the slot index of tag, allocating one on first use.
// It returns false once the index space is exhausted. Two goroutines racing on
// the same tag agree on one index; the loser's allocation is discarded.
func (a *Allocator) Assign(tag *Tag) (uint32, bool) {
	if idx := tag.idx.Load(); idx != 0 {
		return idx, true
	}
	if a.next.Load() >= a.limit {
		return 0, false
	}
	idx := a.next.Add(1)
	if idx > a.limit {
		return 0, false
	}
	if tag.idx.CompareAndSwap(0, idx) {
		return idx, true
	}
	return tag.idx.Load(), true
}

// Assigned returns how many indices have been handed out.
func (a *Allocator) Assigned() uint32 {
	n := a.next.Load()
	if n > a.limit {
		return a.limit
	}
	return n
}

// Exhausted reports whether no further index can be assigned.
func (a *Allocator) Exhausted() bool {
	return a.next.Load() >= a.limit
}

// Limit returns the largest index the allocator hands out.
func (a *Allocator) Limit() uint32 {
	return a.limit
}

type slotArray[E any] []atomic.Pointer[E]

// Slots is a growable array of immutable entries indexed by slot number.
// Readers never lock. Writers serialize on mu, so growth copies every
// published entry before the larger array replaces the old one; holders of
// an older array keep a valid, smaller view.
type Slots[E any] struct {
	mu     sync.Mutex
	arr    atomic.Pointer[slotArray[E]]
	grows  atomic.Uint64
	stored atomic.Uint64
}

// NewSlots returns slots with room for indices below capacity.
func NewSlots[E any](capacity int) *Slots[E] {
	if capacity < 1 {
		capacity = 1
	}
	s := &Slots[E]{}
	arr := make(slotArray[E], capacity)
	s.arr.Store(&arr)
	return s
}

// Load returns the entry at idx, or nil when the slot is unassigned, out of
// the current array bounds, or not yet published.
func (s *Slots[E]) Load(idx uint32) *E {
	if idx == 0 {
		return nil
	}
	arr := *s.arr.Load()
	if int(idx) >= len(arr) {
		return nil
	}
	return arr[idx].Load()
}

// Store publishes e at idx unless another entry got there first, and returns
// whichever entry is published. The array grows as needed. Concurrent
// callers for the same idx all receive the same entry.
func (s *Slots[E]) Store(idx uint32, e *E) *E {
	if idx == 0 || idx > MaxIndex {
		return e
	}
	if cur := s.Load(idx); cur != nil {
		return cur
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.grow(idx)
	if !arr[idx].CompareAndSwap(nil, e) {
		return arr[idx].Load()
	}
	s.stored.Add(1)
	return e
}

// grow must be called with mu held.
func (s *Slots[E]) grow(idx uint32) slotArray[E] {
	old := *s.arr.Load()
	if int(idx) < len(old) {
		return old
	}
	size := max(len(old)*2, int(idx)+1)
	size = min(size, int(MaxIndex)+1)
	next := make(slotArray[E], size)
	for i := range old {
		if v := old[i].Load(); v != nil {
			next[i].Store(v)
		}
	}
	s.arr.Store(&next)
	s.grows.Add(1)
	return next
}

// Cap returns the length of the current array.
func (s *Slots[E]) Cap() int {
	return len(*s.arr.Load())
}

// Grows returns how many times the array has been replaced.
func (s *Slots[E]) Grows() uint64 {
	return s.grows.Load()
}

// Stored returns how many entries Store published.
func (s *Slots[E]) Stored() uint64 {
	return s.stored.Load()
}
