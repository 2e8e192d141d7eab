package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeekMinEmpty(t *testing.T) {
	q := New()
	_, _, ok := q.PeekMin()
	require.False(t, ok)
}

func TestPushAndPeekMin(t *testing.T) {
	q := New()
	q.Push("a", 3)
	q.Push("b", 1)
	q.Push("c", 2)

	id, priority, ok := q.PeekMin()
	require.True(t, ok)
	require.Equal(t, "b", id)
	require.Equal(t, 1, priority)
}

func TestPeekMax(t *testing.T) {
	q := New()
	q.Push("a", 3)
	q.Push("b", 1)
	q.Push("c", 2)

	id, priority, ok := q.PeekMax()
	require.True(t, ok)
	require.Equal(t, "a", id)
	require.Equal(t, 3, priority)
}

func TestChangePriorityReordersHeap(t *testing.T) {
	q := New()
	q.Push("a", 0)
	q.Push("b", 0)

	ok := q.ChangePriority("a", func(cur int) int { return cur + 5 })
	require.True(t, ok)

	id, priority, _ := q.PeekMin()
	require.Equal(t, "b", id)
	require.Equal(t, 0, priority)

	ok = q.ChangePriority("b", func(cur int) int { return cur + 10 })
	require.True(t, ok)

	id, priority, _ = q.PeekMin()
	require.Equal(t, "a", id)
	require.Equal(t, 5, priority)
}

func TestChangePriorityUnknownID(t *testing.T) {
	q := New()
	ok := q.ChangePriority("missing", func(cur int) int { return cur + 1 })
	require.False(t, ok)
}

func TestPushDuplicateIDPanics(t *testing.T) {
	q := New()
	q.Push("a", 0)
	require.Panics(t, func() { q.Push("a", 1) })
}

func TestLen(t *testing.T) {
	q := New()
	require.Equal(t, 0, q.Len())
	q.Push("a", 0)
	q.Push("b", 0)
	require.Equal(t, 2, q.Len())
}

func TestConcurrentPushAndChangePriority(t *testing.T) {
	q := New()
	n := 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + (i % 26)))
			q.ChangePriority(id, func(cur int) int { return cur + 1 })
		}(i)
	}

	for i := 0; i < 26; i++ {
		q.Push(string(rune('a'+i)), 0)
	}
	wg.Wait()

	require.Equal(t, 26, q.Len())
}
