package actor

import "context"

// InspectReply submits fn to run with a copy of the state and returns the
// Future for the value fn sends on its Reply. If fn returns without sending,
// the Future resolves with ErrNoReply.
func InspectReply[S State, R any](mb *Mailbox[S], fn func(S, *Reply[R])) *Future[R] {
	reply, fut := newReply[R]()
	return request(mb, Command[S]{
		kind:    KindInspectReply,
		inspect: func(s S) { fn(s, reply) },
		abandon: reply.abandon,
	}, fut)
}

// MutateReply submits fn to run with exclusive access to the state and
// returns the Future for the value fn sends on its Reply.
func MutateReply[S State, R any](mb *Mailbox[S], fn func(*S, *Reply[R])) *Future[R] {
	reply, fut := newReply[R]()
	return request(mb, Command[S]{
		kind:    KindMutateReply,
		mutate:  func(s *S) { fn(s, reply) },
		abandon: reply.abandon,
	}, fut)
}

// ReadAsync is InspectReply for a payload that replies with its result.
func ReadAsync[S State, R any](mb *Mailbox[S], fn func(S) R) *Future[R] {
	return InspectReply(mb, func(s S, r *Reply[R]) { r.Send(fn(s)) })
}

// WriteAsync is MutateReply for a payload that replies with its result.
func WriteAsync[S State, R any](mb *Mailbox[S], fn func(*S) R) *Future[R] {
	return MutateReply(mb, func(s *S, r *Reply[R]) { r.Send(fn(s)) })
}

// Read blocks until fn has run against the state and returns its result.
func Read[S State, R any](ctx context.Context, mb *Mailbox[S], fn func(S) R) (R, error) {
	return ReadAsync(mb, fn).Await(ctx)
}

// Write blocks until fn has mutated the state and returns its result.
func Write[S State, R any](ctx context.Context, mb *Mailbox[S], fn func(*S) R) (R, error) {
	return WriteAsync(mb, fn).Await(ctx)
}

func request[S State, R any](mb *Mailbox[S], cmd Command[S], fut *Future[R]) *Future[R] {
	if !mb.push(cmd) {
		mb.l.rejected(cmd.kind, ErrRequestNotDelivered)
		cmd.release(ErrRequestNotDelivered)
	}
	return fut
}
