package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_fifo(t *testing.T) {
	q := newQueue[int]()
	for i := range 100 {
		require.True(t, q.push(i))
	}
	require.Equal(t, 100, q.len())

	for i := range 100 {
		v, ok, err := q.pop(t.Context())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.Equal(t, 0, q.len())
}

func TestQueue_close_keeps_pending(t *testing.T) {
	q := newQueue[string]()
	require.True(t, q.push("a"))
	require.True(t, q.push("b"))
	q.close()

	require.False(t, q.push("c"))

	v, ok, err := q.pop(t.Context())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok, _ = q.pop(t.Context())
	require.True(t, ok)
	require.Equal(t, "b", v)

	_, ok, err = q.pop(t.Context())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQueue_pop_blocks_until_push(t *testing.T) {
	q := newQueue[int]()
	got := make(chan int, 1)
	go func() {
		v, _, _ := q.pop(context.Background())
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("pop returned on empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.push(7)
	select {
	case v := <-got:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestQueue_pop_ctx(t *testing.T) {
	q := newQueue[int]()
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := q.pop(ctx)
	require.False(t, ok)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_drain(t *testing.T) {
	q := newQueue[int]()
	q.push(1)
	q.push(2)
	v, _, _ := q.pop(t.Context())
	require.Equal(t, 1, v)
	q.push(3)

	require.Equal(t, []int{2, 3}, q.drain())
	require.Equal(t, 0, q.len())
}
