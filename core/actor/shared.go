package actor

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SharedReads coalesces concurrent reads with the same key: while one read
// for a key is in flight, other callers wait for its result instead of
// queueing their own command.
type SharedReads[S State, R any] struct {
	mb    *Mailbox[S]
	group singleflight.Group
}

// NewSharedReads creates a SharedReads submitting through mb. It does not
// take ownership of mb.
func NewSharedReads[S State, R any](mb *Mailbox[S]) *SharedReads[S, R] {
	return &SharedReads[S, R]{mb: mb}
}

// Read runs fn against the state, or joins an in-flight read for key. Each
// caller stops waiting when its own ctx is done; the shared read keeps going
// for the others.
func (s *SharedReads[S, R]) Read(ctx context.Context, key string, fn func(S) R) (R, error) {
	var zero R

	ch := s.group.DoChan(key, func() (any, error) {
		return Read(context.WithoutCancel(ctx), s.mb, fn)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(R)
		return v, nil
	}
}

// Forget makes the next Read for key submit a fresh command.
func (s *SharedReads[S, R]) Forget(key string) { s.group.Forget(key) }
