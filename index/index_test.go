package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
	"github.com/Konsultn-Engineering/fastrefl/utils"
)

type member struct {
	name string
}

func (m *member) Name() string { return m.name }

func build(names ...string) (*Table[*member], []*member) {
	ms := make([]*member, len(names))
	for i, n := range names {
		ms[i] = &member{name: n}
	}
	return New(ms), ms
}

// colliding returns two distinct names of equal length in the same bucket.
func colliding(t *testing.T) (string, string) {
	t.Helper()
	seen := make(map[int]string)
	for i := 0; i < 10000; i++ {
		name := fmt.Sprintf("m%04d", i)
		b := utils.NameBucket(name)
		if other, ok := seen[b]; ok {
			return other, name
		}
		seen[b] = name
	}
	t.Fatal("no bucket collision found")
	return "", ""
}

func TestTableGet(t *testing.T) {
	tbl, ms := build("a", "b", "abc", "Combine")

	for _, m := range ms {
		got, ok := tbl.Get(m.name)
		require.True(t, ok, m.name)
		assert.Same(t, m, got)
	}

	for _, name := range []string{"", "c", "ab", "abcd", "CombineAll", "combine"} {
		got, ok := tbl.Get(name)
		assert.False(t, ok, name)
		assert.Nil(t, got)
	}
	assert.Equal(t, ms, tbl.All())
	assert.Equal(t, 4, tbl.Len())
}

func TestTableFirstWriterWins(t *testing.T) {
	// "a" owns the length-1 slot, "b" must be resolved past it
	tbl, ms := build("a", "b")
	assert.Same(t, ms[0], tbl.byLength[0])

	got, ok := tbl.Get("b")
	require.True(t, ok)
	assert.Same(t, ms[1], got)
}

func TestTableHashCollision(t *testing.T) {
	x, y := colliding(t)
	tbl, ms := build(x, y)

	assert.Same(t, ms[0], tbl.byHash[utils.NameBucket(y)])

	// Same length and same bucket: only the map resolves y
	got, ok := tbl.Get(y)
	require.True(t, ok)
	assert.Same(t, ms[1], got)
}

func TestTableDuplicateNames(t *testing.T) {
	tbl, ms := build("Do", "Do")
	got, ok := tbl.Get("Do")
	require.True(t, ok)
	assert.Same(t, ms[0], got)
	assert.Len(t, tbl.All(), 2)
}

func TestTableEmpty(t *testing.T) {
	tbl, _ := build()
	for _, name := range []string{"", "a", "anything"} {
		_, ok := tbl.Get(name)
		assert.False(t, ok)
	}
	assert.Empty(t, tbl.All())
}

func TestTableSoundness(t *testing.T) {
	names := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		names = append(names, fmt.Sprintf("member%d", i))
	}
	tbl, ms := build(names...)
	want := make(map[string]*member, len(ms))
	for _, m := range ms {
		want[m.name] = m
	}

	var wg sync.WaitGroup
	for g := 0; g < 100; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 400; i++ {
				name := fmt.Sprintf("member%d", (i*7+g)%400)
				got, ok := tbl.Get(name)
				exp, expOK := want[name]
				assert.Equal(t, expOK, ok, name)
				if expOK {
					assert.Same(t, exp, got)
				}
			}
		}(g)
	}
	wg.Wait()
}

type example struct {
	a   int
	b   int
	abc string
}

func (e *example) Combine(x, y string) string { return x + y }
func (e *example) Level() int                 { return e.a }
func (e *example) SetLevel(n int)             { e.a = n }

type empty struct{}

func TestBuild(t *testing.T) {
	typ, err := schema.IntrospectFor[example]()
	require.NoError(t, err)

	ix := Build(typ)
	require.NotNil(t, ix)
	assert.Same(t, typ, ix.Type)

	for _, c := range []cache.Category{cache.CategoryField, cache.CategoryProperty, cache.CategoryMethod} {
		for _, m := range typ.Members(c) {
			assert.Same(t, typ.MemberByName(c, m.Name()), ix.Member(c, m.Name()))
		}
		assert.Equal(t, typ.Members(c), ix.Members(c))
		assert.Nil(t, ix.Member(c, "missing"))
	}

	assert.Same(t, typ.FieldByName("abc"), ix.Member(cache.CategoryField, "abc"))
	assert.Same(t, typ.MethodByName("Combine"), ix.Member(cache.CategoryMethod, "Combine"))
	assert.Nil(t, ix.Member(cache.CategoryType, "a"))
	assert.Nil(t, ix.Members(cache.CategoryType))
	assert.Equal(t, "example: 3 fields, 1 property, 1 method", ix.Summary())

	assert.Nil(t, Build(nil))
}

func TestBuildEmpty(t *testing.T) {
	typ, err := schema.IntrospectFor[empty]()
	require.NoError(t, err)
	ix := Build(typ)

	for _, c := range []cache.Category{cache.CategoryField, cache.CategoryProperty, cache.CategoryMethod} {
		for _, name := range []string{"", "a", "abc", "Combine"} {
			assert.Nil(t, ix.Member(c, name))
		}
		assert.Empty(t, ix.Members(c))
	}
	assert.Equal(t, "empty: 0 fields, 0 properties, 0 methods", ix.Summary())
}
