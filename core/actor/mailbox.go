package actor

import (
	"log/slog"
	"sync/atomic"
)

// link is the producing side shared by all clones of a Mailbox.
type link[S State] struct {
	queue   *queue[Command[S]]
	log     *slog.Logger
	metrics Metrics

	handles atomic.Int64
	dropped atomic.Uint64
}

// acquire registers one more open handle. It fails once the count has
// dropped to zero, since the queue is closed for good by then.
func (l *link[S]) acquire() bool {
	for {
		n := l.handles.Load()
		if n <= 0 {
			return false
		}
		if l.handles.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (l *link[S]) rejected(kind Kind, err error) {
	l.dropped.Add(1)
	l.metrics.SubmissionFailed(kind.String())
	l.log.Warn("submission rejected", slog.String("kind", kind.String()), slog.Any("error", err))
}

// Mailbox is a handle for submitting commands to a Process. It never exposes
// the state. Use Clone to hand out more handles and Close to release one;
// closing the last open handle lets the Process stop once its queue drains.
//
// A single Mailbox value may be used from many goroutines, but Close applies
// to the handle as a whole, so give each independent owner its own Clone.
type Mailbox[S State] struct {
	l      *link[S]
	closed atomic.Bool
}

func newMailbox[S State](l *link[S]) *Mailbox[S] {
	l.handles.Add(1)
	return &Mailbox[S]{l: l}
}

// Clone returns a new handle sharing the same queue. Cloning a closed handle,
// or one whose last sibling is closed concurrently, yields a closed handle.
func (m *Mailbox[S]) Clone() *Mailbox[S] {
	c := &Mailbox[S]{l: m.l}
	if m.closed.Load() || !m.l.acquire() {
		c.closed.Store(true)
	}
	return c
}

// Close releases the handle. It is idempotent.
func (m *Mailbox[S]) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	if m.l.handles.Add(-1) == 0 {
		m.l.queue.close()
	}
}

// Closed reports whether Close was called on this handle.
func (m *Mailbox[S]) Closed() bool { return m.closed.Load() }

// Inspect submits fn to run with a copy of the state. It never blocks; a
// rejected submission is logged and counted in Dropped.
func (m *Mailbox[S]) Inspect(fn func(S)) { m.post(Inspect(fn)) }

// Mutate submits fn to run with exclusive access to the state. It never
// blocks; a rejected submission is logged and counted in Dropped.
func (m *Mailbox[S]) Mutate(fn func(*S)) { m.post(Mutate(fn)) }

// Stop submits a Stop command. Commands queued before it still run.
func (m *Mailbox[S]) Stop() { m.post(Stop[S]()) }

// Submit enqueues cmd and reports ErrSubmissionFailed when the process no
// longer accepts work.
func (m *Mailbox[S]) Submit(cmd Command[S]) error {
	if !m.push(cmd) {
		m.l.rejected(cmd.kind, ErrSubmissionFailed)
		return ErrSubmissionFailed
	}
	return nil
}

// Dropped returns how many submissions the shared queue has rejected.
func (m *Mailbox[S]) Dropped() uint64 { return m.l.dropped.Load() }

// Pending returns the number of queued commands.
func (m *Mailbox[S]) Pending() int { return m.l.queue.len() }

func (m *Mailbox[S]) post(cmd Command[S]) {
	if !m.push(cmd) {
		m.l.rejected(cmd.kind, ErrSubmissionFailed)
	}
}

func (m *Mailbox[S]) push(cmd Command[S]) bool {
	if m.closed.Load() {
		return false
	}
	return m.l.queue.push(cmd)
}
