package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Konsultn-Engineering/fastrefl/accessor"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

type example struct {
	a   int
	b   int
	abc string
}

func (e *example) Combine(x, y string) string { return x + y }
func (e *example) Sum(xs ...int) int          { return len(xs) }

type wide struct {
	F0, F1, F2, F3, F4, F5, F6, F7, F8, F9 int
}

type limited struct {
	A, B, C, D int
}

func introspect[T any](t *testing.T) *schema.Type {
	t.Helper()
	typ, err := schema.IntrospectFor[T]()
	require.NoError(t, err)
	return typ
}

func TestRegistryIdempotent(t *testing.T) {
	r := New()
	typ := introspect[example](t)
	f := typ.FieldByName("abc")

	first := r.Field(f)
	require.NotNil(t, first)
	slot := f.Tag().Index()
	require.NotZero(t, slot)
	allocated := r.Stats().Fields.Allocated

	second := r.Field(f)
	assert.Same(t, first, second)
	assert.Equal(t, slot, f.Tag().Index())
	assert.Equal(t, allocated, r.Stats().Fields.Allocated)
	assert.Equal(t, uint64(1), r.Stats().Fields.Built)

	ix := r.Type(typ)
	require.NotNil(t, ix)
	assert.Same(t, ix, r.Type(typ))
	assert.Same(t, typ, ix.Type)
}

func TestRegistryScenario(t *testing.T) {
	r := New()
	typ := introspect[example](t)
	e := &example{a: 123, b: 321, abc: "abc"}

	acc := r.Field(typ.FieldByName("abc"))
	v, err := acc.Get(e)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	require.NoError(t, acc.Set(e, "xyz"))
	v, err = acc.Get(e)
	require.NoError(t, err)
	assert.Equal(t, "xyz", v)

	inv := r.Method(typ.MethodByName("Combine"))
	require.NotNil(t, inv)
	v, err = inv.Invoke(e, []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

func TestRegistriesShareSlots(t *testing.T) {
	typ := introspect[example](t)
	f := typ.FieldByName("b")

	r1, r2 := New(), New()
	e1 := r1.Field(f)
	slot := f.Tag().Index()
	e2 := r2.Field(f)

	require.NotNil(t, e1)
	require.NotNil(t, e2)
	assert.NotSame(t, e1, e2, "each registry owns its entries")
	assert.Equal(t, slot, f.Tag().Index())
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	r := New(WithInitialCapacity(1))
	typ := introspect[wide](t)
	fields := typ.Fields()

	const workers = 100
	got := make([][]*accessor.Accessor, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got[w] = make([]*accessor.Accessor, len(fields))
			for i, f := range fields {
				got[w][i] = r.Field(f)
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for i, f := range fields {
		idx := f.Tag().Index()
		require.NotZero(t, idx)
		assert.False(t, seen[idx], "slot %d reused", idx)
		seen[idx] = true

		want := r.Field(f)
		for w := 0; w < workers; w++ {
			require.NotNil(t, got[w][i])
		}
		assert.Same(t, want, r.Field(f))
	}

	v := &wide{}
	for i, f := range fields {
		require.NoError(t, r.Field(f).Set(v, i))
		val, err := r.Field(f).Get(v)
		require.NoError(t, err)
		assert.Equal(t, i, val)
	}
	assert.Greater(t, r.Stats().Fields.Capacity, int(fields[len(fields)-1].Tag().Index()))
}

func TestRegistrySlotLimit(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	typ := introspect[limited](t)
	fields := typ.Fields()

	// Room for exactly two more field slots
	limit := New().Stats().Fields.Allocated + 2
	r := New(WithSlotLimit(limit), WithLogger(zap.New(core)))

	assert.NotNil(t, r.Field(fields[0]))
	assert.NotNil(t, r.Field(fields[1]))
	assert.Nil(t, r.Field(fields[2]))
	assert.Nil(t, r.Field(fields[3]))
	assert.Nil(t, r.Field(fields[2]))

	// Cached entries stay usable after degradation
	assert.NotNil(t, r.Field(fields[0]))

	stats := r.Stats().Fields
	assert.Equal(t, uint64(3), stats.Degraded)
	assert.Equal(t, uint64(2), stats.Built)
	require.Equal(t, 1, logs.Len(), "one warning per category")
	assert.Equal(t, "field", logs.All()[0].ContextMap()["category"])

	// Another registry without a limit caches them
	assert.NotNil(t, New().Field(fields[3]))
}

func TestRegistryDeclinedMethod(t *testing.T) {
	r := New()
	typ := introspect[example](t)
	sum := typ.MethodByName("Sum")

	assert.Nil(t, r.Method(sum))
	assert.Nil(t, r.Method(sum))
	stats := r.Stats().Methods
	assert.Equal(t, uint64(1), stats.Declined)
	assert.Zero(t, stats.Built)

	require.NotNil(t, r.Method(typ.MethodByName("Combine")))
	stats = r.Stats().Methods
	assert.Equal(t, uint64(1), stats.Built)
	assert.Equal(t, uint64(1), stats.Declined)
}

func TestRegistryNilDescriptors(t *testing.T) {
	r := New()
	assert.Nil(t, r.Type(nil))
	assert.Nil(t, r.Field(nil))
	assert.Nil(t, r.Property(nil))
	assert.Nil(t, r.Method(nil))
}

func TestRegistryCoercionOption(t *testing.T) {
	typ := introspect[example](t)
	f := typ.FieldByName("a")
	e := &example{}

	strict := New()
	assert.ErrorIs(t, strict.Field(f).Set(e, "5"), schema.ErrTypeMismatch)

	lenient := New(WithCoercion(schema.Lenient), WithConverterCacheSize(8))
	require.NoError(t, lenient.Field(f).Set(e, "5"))
	assert.Equal(t, 5, e.a)
	assert.Equal(t, schema.Lenient, lenient.Converter().Mode())
}

func TestStatsString(t *testing.T) {
	r := New()
	r.Type(introspect[example](t))
	s := r.Stats()
	require.Len(t, s.All(), 4)
	assert.Contains(t, s.Types.String(), "type")
	assert.Contains(t, s.Types.String(), fmt.Sprintf("built=%d", s.Types.Built))
}
