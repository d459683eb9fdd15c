package comparator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{
		NameDeepEqual, NameEqual, NameGreater, NameGreaterOrEqual,
		NameLess, NameLessOrEqual, NameNotEqual,
	}, r.Names())

	eq, err := r.Get(NameEqual)
	require.NoError(t, err)
	assert.True(t, eq(1, 1))

	ne, err := r.Get(NameNotEqual)
	require.NoError(t, err)
	assert.True(t, ne(1, 2))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	even := func(actual, _ any) bool { return actual.(int)%2 == 0 }

	require.NoError(t, r.Register("even", even))
	assert.True(t, r.Has("even"))

	c, err := r.Get("even")
	require.NoError(t, err)
	assert.True(t, c(4, nil))

	assert.Error(t, r.Register("even", even))
	assert.Error(t, r.Register(NameEqual, even))
	assert.Error(t, r.Register("nil", nil))
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := NewRegistry().Get("approx")
	assert.ErrorContains(t, err, "unknown comparator: approx")
	assert.False(t, Default.Has("approx"))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(string(rune('a'+i)), Equal)
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Len(t, r.Names(), 27)
}
