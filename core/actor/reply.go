package actor

import (
	"context"
	"sync"
	"sync/atomic"
)

// Reply is the producer half of a one-shot reply channel. It is handed to
// reply payloads, which call Send at most once.
type Reply[R any] struct {
	resolved atomic.Bool
	f        *Future[R]
}

// Future is the consumer half of a one-shot reply channel.
type Future[R any] struct {
	// val and err are written once, before done is closed.
	val  R
	err  error
	done chan struct{}

	mu       sync.Mutex
	consumed bool
}

func newReply[R any]() (*Reply[R], *Future[R]) {
	f := &Future[R]{done: make(chan struct{})}
	return &Reply[R]{f: f}, f
}

// failedFuture returns a Future already resolved with err.
func failedFuture[R any](err error) *Future[R] {
	r, f := newReply[R]()
	r.abandon(err)
	return f
}

// Send delivers v to the waiting side. Only the first Send succeeds; it
// reports false when the reply was already sent or abandoned.
func (r *Reply[R]) Send(v R) bool {
	if !r.resolved.CompareAndSwap(false, true) {
		return false
	}
	r.f.val = v
	close(r.f.done)
	return true
}

// abandon resolves the reply without a value. No-op after Send.
func (r *Reply[R]) abandon(cause error) bool {
	if !r.resolved.CompareAndSwap(false, true) {
		return false
	}
	if cause == nil {
		cause = ErrNoReply
	}
	r.f.err = cause
	close(r.f.done)
	return true
}

// Done is closed once the reply holds a value or an error.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Await waits for the reply. It returns the value, ErrNoReply (possibly
// wrapped in a *PanicError), ErrRequestNotDelivered, or ctx's error. A Future
// yields its result once; later calls return ErrReplyConsumed.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	var zero R

	// a resolved reply wins over a cancelled ctx
	select {
	case <-f.done:
	default:
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-f.done:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumed {
		return zero, ErrReplyConsumed
	}
	f.consumed = true
	if f.err != nil {
		return zero, f.err
	}
	return f.val, nil
}
