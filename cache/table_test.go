package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	tbl := NewTable[string, int]()

	_, ok := tbl.Get("a")
	assert.False(t, ok)

	tbl.Set("a", 1)
	v, ok := tbl.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	tbl.Set("a", 2)
	tbl.Set("b", 3)
	v, _ = tbl.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, tbl.Len())
}

func TestBoundedGetOrCreate(t *testing.T) {
	b := NewBounded[string, int](2)

	var calls atomic.Int32
	create := func() (int, error) {
		calls.Add(1)
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := b.GetOrCreate("k", create)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestBoundedErrorsNotCached(t *testing.T) {
	b := NewBounded[string, int](0)
	boom := errors.New("boom")

	_, err := b.GetOrCreate("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.Len())

	v, err := b.GetOrCreate("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestBoundedEvicts(t *testing.T) {
	b := NewBounded[int, int](2)
	var builds atomic.Int32
	get := func(k int) int {
		v, err := b.GetOrCreate(k, func() (int, error) {
			builds.Add(1)
			return k * 10, nil
		})
		require.NoError(t, err)
		return v
	}
	get(1)
	get(2)
	get(3)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, int32(3), builds.Load())

	assert.Equal(t, 10, get(1), "least recently used entry should be rebuilt")
	assert.Equal(t, int32(4), builds.Load())

	b.Purge()
	assert.Equal(t, 0, b.Len())
}
