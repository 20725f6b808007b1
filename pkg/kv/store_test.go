package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := New[string, int]()
	s.Set("summary-abc", 42)

	v, ok := s.Get("summary-abc")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	s.Delete("summary-abc")
	_, ok = s.Get("summary-abc")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_UpdateSeesCurrent(t *testing.T) {
	s := New[string, []string]()

	got := s.Update("k", func(cur []string, present bool) []string {
		assert.False(t, present)
		return append(cur, "first")
	})
	assert.Equal(t, []string{"first"}, got)

	got = s.Update("k", func(cur []string, present bool) []string {
		assert.True(t, present)
		return append(cur, "second")
	})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestStore_Keys(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}

func TestStore_ConcurrentUpdate(t *testing.T) {
	s := New[string, int]()
	var wg sync.WaitGroup

	for range 100 {
		wg.Go(func() {
			s.Update("hits", func(cur int, _ bool) int { return cur + 1 })
		})
	}
	wg.Wait()

	v, _ := s.Get("hits")
	assert.Equal(t, 100, v)
}
