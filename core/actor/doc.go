// Package actor provides a single-writer state actor: a [Process] owns a
// state value exclusively and applies [Command]s taken from an unbounded FIFO
// queue, while any number of goroutines submit work through [Mailbox] handles.
//
// # Creating a Process
//
// A state type opts in by implementing [State] (a String method used for
// diagnostics):
//
//	type Counter int
//
//	func (c Counter) String() string { return strconv.Itoa(int(c)) }
//
//	proc, mb := actor.New(Counter(0), actor.Options{})
//	go proc.Run(ctx)
//
// [Spawn] does both in one call.
//
// # Submitting Work
//
// Fire-and-forget submissions never block and never return errors:
//
//	mb.Mutate(func(c *Counter) { *c++ })
//	mb.Inspect(func(c Counter) { log.Println(c) })
//
// Requests return a [Future] bound to a one-shot reply:
//
//	v, err := actor.Read(ctx, mb, func(c Counter) int { return int(c) })
//	n, err := actor.Write(ctx, mb, func(c *Counter) int { *c++; return int(*c) })
//
// [InspectReply] and [MutateReply] hand the payload a [Reply] to send on, or
// not. A request resolves with its value, [ErrRequestNotDelivered] when the
// process no longer accepts work, or [ErrNoReply] when it was delivered but
// no value was sent.
//
// # Ordering
//
// Commands run one at a time in enqueue order. Commands from one goroutine
// run in the order it submitted them; a mutation is never interleaved with
// another command.
//
// # Lifecycle
//
//	other := mb.Clone() // hand to another goroutine
//	other.Close()       // release it
//	mb.Close()          // last handle: the process drains its queue and stops
//	<-proc.Done()
//
// [Mailbox.Stop] stops the process at a given point in the queue; cancelling
// the Run context aborts it and resolves pending requests with [ErrNoReply].
//
// # Failures
//
// A payload that panics is recovered and reported through [Options.OnPanic];
// its request resolves with a [PanicError] and the process continues with
// the next command.
package actor
