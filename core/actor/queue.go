package actor

import (
	"context"
	"sync"
)

// queue is an unbounded multi-producer single-consumer FIFO.
// push never blocks; pop blocks until an item arrives, the queue is closed
// and empty, or ctx is done.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool

	// signal has capacity 1 and carries "items may be available".
	signal chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{signal: make(chan struct{}, 1)}
}

func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.notify()
	return true
}

// pop returns the next item. ok is false once the queue is closed and empty.
func (q *queue[T]) pop(ctx context.Context) (v T, ok bool, err error) {
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			v = q.items[q.head]
			var zero T
			q.items[q.head] = zero
			q.head++
			if q.head == len(q.items) {
				q.items = q.items[:0]
				q.head = 0
			}
			q.mu.Unlock()
			return v, true, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return v, false, nil
		}

		select {
		case <-ctx.Done():
			return v, false, ctx.Err()
		case <-q.signal:
		}
	}
}

// close rejects further pushes. Items already queued stay poppable.
func (q *queue[T]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.notify()
}

// drain removes and returns everything still queued.
func (q *queue[T]) drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items)-q.head)
	copy(out, q.items[q.head:])
	q.items = nil
	q.head = 0
	return out
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *queue[T]) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
