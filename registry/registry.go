// Package registry maps interned descriptors to their cache entries.
//
// Every descriptor carries a cache.Tag holding its slot index. Indices are
// allocated once per process and category; each Registry keeps its own
// copy-on-grow slot arrays, so the steady state lookup is a field load and
// an array index with no map and no lock.
package registry

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/fastrefl/accessor"
	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/index"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// allocators are shared by all registries so a descriptor has one index.
var allocators = func() (a [cache.NumCategories]*cache.Allocator) {
	for i := range a {
		a[i] = cache.NewAllocator(cache.MaxIndex)
	}
	return a
}()

type tagged interface {
	comparable
	Tag() *cache.Tag
}

// category holds the entries of one descriptor category.
type category[D tagged, E any] struct {
	kind  cache.Category
	alloc *cache.Allocator
	slots *cache.Slots[E]
	limit uint32
	build func(D) *E
	log   *zap.Logger

	// declinedEntry, when set, marks published entries that are not built.
	declinedEntry *E

	built    atomic.Uint64
	declined atomic.Uint64
	degraded atomic.Uint64
	warned   atomic.Bool
}

func newCategory[D tagged, E any](kind cache.Category, o *options, build func(D) *E) *category[D, E] {
	return &category[D, E]{
		kind:  kind,
		alloc: allocators[kind],
		slots: cache.NewSlots[E](o.initialCapacity),
		limit: o.slotLimit,
		build: build,
		log:   o.logger,
	}
}

// get returns the entry of d, building and publishing it on first use. It
// returns nil when d cannot be cached; the caller uses the generic path.
func (c *category[D, E]) get(d D) *E {
	var zero D
	if d == zero {
		return nil
	}
	tag := d.Tag()

	// Fast path: slot already published in this registry
	idx := tag.Index()
	if e := c.slots.Load(idx); e != nil {
		return e
	}

	if idx == 0 {
		var ok bool
		if idx, ok = c.alloc.Assign(tag); !ok {
			c.degrade("slot space exhausted", idx)
			return nil
		}
	}
	if idx > c.limit {
		c.degrade("slot limit reached", idx)
		return nil
	}

	e := c.build(d)
	if e == nil {
		c.declined.Add(1)
		return nil
	}
	if e != c.declinedEntry {
		c.built.Add(1)
	}
	return c.slots.Store(idx, e)
}

func (c *category[D, E]) degrade(reason string, idx uint32) {
	c.degraded.Add(1)
	if c.warned.CompareAndSwap(false, true) {
		c.log.Warn("cache degraded to generic reflection",
			zap.Stringer("category", c.kind),
			zap.String("reason", reason),
			zap.Uint32("slot", idx),
			zap.Uint32("limit", c.limit),
		)
	}
}

func (c *category[D, E]) stats() CategoryStats {
	return CategoryStats{
		Category:  c.kind,
		Allocated: c.alloc.Assigned(),
		Capacity:  c.slots.Cap(),
		Built:     c.built.Load(),
		Declined:  c.declined.Load(),
		Degraded:  c.degraded.Load(),
		Grows:     c.slots.Grows(),
	}
}

// declinedInvoker is published for methods the compiler declines so the
// decision is made once per registry.
var declinedInvoker = &accessor.Invoker{}

// Registry is the cache slot registry. The zero value is not usable; create
// one with New. A Registry is safe for concurrent use.
type Registry struct {
	opts options
	conv *schema.Converter
	log  *zap.Logger

	types      *category[*schema.Type, index.TypeIndex]
	fields     *category[*schema.Field, accessor.Accessor]
	properties *category[*schema.Property, accessor.Accessor]
	methods    *category[*schema.Method, accessor.Invoker]
}

// New creates a registry with the given options.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		opts: o,
		conv: schema.NewConverter(o.coercion, o.converterCacheSize),
		log:  o.logger,
	}

	r.types = newCategory(cache.CategoryType, &o, func(t *schema.Type) *index.TypeIndex {
		ix := index.Build(t)
		r.log.Debug("indexed type", zap.String("type", t.String()), zap.String("summary", ix.Summary()))
		return ix
	})
	r.fields = newCategory(cache.CategoryField, &o, func(f *schema.Field) *accessor.Accessor {
		return accessor.CompileField(f, r.conv)
	})
	r.properties = newCategory(cache.CategoryProperty, &o, func(p *schema.Property) *accessor.Accessor {
		return accessor.CompileProperty(p, r.conv)
	})
	r.methods = newCategory(cache.CategoryMethod, &o, func(m *schema.Method) *accessor.Invoker {
		inv := accessor.CompileMethod(m, r.conv)
		if inv == nil {
			r.methods.declined.Add(1)
			r.log.Debug("method not compiled",
				zap.String("type", m.DeclaringType().String()),
				zap.String("method", m.Name()),
				zap.Bool("variadic", m.IsVariadic()),
			)
			return declinedInvoker
		}
		return inv
	})
	r.methods.declinedEntry = declinedInvoker
	return r
}

// Type returns the member index of t, or nil when t is not cached.
func (r *Registry) Type(t *schema.Type) *index.TypeIndex {
	return r.types.get(t)
}

// Field returns the accessor of f, or nil when f is not cached.
func (r *Registry) Field(f *schema.Field) *accessor.Accessor {
	return r.fields.get(f)
}

// Property returns the accessor of p, or nil when p is not cached.
func (r *Registry) Property(p *schema.Property) *accessor.Accessor {
	return r.properties.get(p)
}

// Method returns the invoker of m, or nil when m is not cached or cannot be
// compiled.
func (r *Registry) Method(m *schema.Method) *accessor.Invoker {
	inv := r.methods.get(m)
	if inv == declinedInvoker {
		return nil
	}
	return inv
}

// Converter returns the converter used by compiled entries.
func (r *Registry) Converter() *schema.Converter {
	return r.conv
}

// Logger returns the registry logger.
func (r *Registry) Logger() *zap.Logger {
	return r.log
}
