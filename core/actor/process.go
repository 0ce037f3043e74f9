package actor

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type (
	OnPanic func(recovered any, stack []byte, kind Kind)

	Options struct {
		// ID names the process in logs and metrics. Defaults to a random id.
		ID      string
		Logger  *slog.Logger
		Metrics Metrics
		OnPanic OnPanic
	}
)

// Process is the sole owner of a State value. It applies the commands
// submitted through its mailboxes one at a time, in queue order.
type Process[S State] struct {
	id      string
	log     *slog.Logger
	metrics Metrics
	onPanic OnPanic

	// state is only touched by the goroutine executing Run.
	state S
	queue *queue[Command[S]]

	running atomic.Bool
	done    chan struct{}
}

// New creates a Process owning initial together with its first Mailbox.
// The process does nothing until Run is called.
func New[S State](initial S, opt Options) (*Process[S], *Mailbox[S]) {
	if opt.ID == "" {
		opt.ID = gonanoid.Must(8)
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Metrics == nil {
		opt.Metrics = NopMetrics()
	}

	log := opt.Logger.With(
		slog.String("process", opt.ID),
		slog.String("state_type", reflect.TypeFor[S]().String()),
	)

	if opt.OnPanic == nil {
		opt.OnPanic = func(recovered any, stack []byte, kind Kind) {
			log.Error("command panicked", slog.Any("recovered", recovered), slog.String("stack", string(stack)), slog.String("kind", kind.String()))
		}
	}

	q := newQueue[Command[S]]()
	p := &Process[S]{
		id:      opt.ID,
		log:     log,
		metrics: opt.Metrics,
		onPanic: opt.OnPanic,
		state:   initial,
		queue:   q,
		done:    make(chan struct{}),
	}

	return p, newMailbox(&link[S]{
		queue:   q,
		log:     log,
		metrics: opt.Metrics,
	})
}

// Spawn is New followed by Run on a new goroutine.
func Spawn[S State](ctx context.Context, initial S, opt Options) (*Process[S], *Mailbox[S]) {
	p, mb := New(initial, opt)
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.log.Warn("process ended", slog.Any("error", err))
		}
	}()
	return p, mb
}

// ID returns the process id.
func (p *Process[S]) ID() string { return p.id }

// Done is closed when Run returns.
func (p *Process[S]) Done() <-chan struct{} { return p.done }

// Run applies commands until one of:
//   - every Mailbox is closed: commands already queued are applied first,
//     then Run returns nil;
//   - a Stop command is reached: commands queued behind it are discarded and
//     Run returns nil;
//   - ctx is done: pending commands are discarded and Run returns ctx.Err().
//
// Discarded request commands resolve with ErrNoReply. The state is released
// when Run returns. Run may be called once; later calls return
// ErrAlreadyRunning.
func (p *Process[S]) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(p.done)
	defer p.release(ctx)

	p.debugState(ctx, "process started")

	for {
		if err := ctx.Err(); err != nil {
			p.discard("context done")
			return err
		}

		cmd, ok, err := p.queue.pop(ctx)
		if err != nil {
			p.discard("context done")
			return err
		}
		if !ok {
			p.log.Debug("all mailboxes closed")
			return nil
		}
		p.metrics.QueueDepth(p.id, p.queue.len())

		if cmd.kind == KindStop {
			p.discard("stop command")
			return nil
		}

		p.handle(ctx, cmd)
	}
}

func (p *Process[S]) handle(ctx context.Context, cmd Command[S]) {
	kind := cmd.kind.String()
	defer p.metrics.CommandDuration(kind).ObserveDuration()

	ok := p.apply(cmd)
	p.metrics.CommandProcessed(kind, ok)

	if cmd.kind == KindMutate || cmd.kind == KindMutateReply {
		p.debugState(ctx, "state mutated")
	}
}

// apply runs the payload with panic containment: a failing command is
// isolated and the loop carries on with the next one.
func (p *Process[S]) apply(cmd Command[S]) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			p.metrics.CommandPanic(cmd.kind.String())
			p.onPanic(r, stack, cmd.kind)
			if cmd.release(&PanicError{Value: r, Stack: stack}) {
				p.metrics.ReplyAbandoned(cmd.kind.String())
			}
			ok = false
		}
	}()

	cmd.apply(&p.state)

	if cmd.release(ErrNoReply) {
		p.metrics.ReplyAbandoned(cmd.kind.String())
		p.log.Warn("command finished without replying", slog.String("kind", cmd.kind.String()))
	}
	return true
}

// discard closes the queue and resolves everything still pending.
func (p *Process[S]) discard(reason string) {
	p.queue.close()

	pending := p.queue.drain()
	for _, cmd := range pending {
		if cmd.release(ErrNoReply) {
			p.metrics.ReplyAbandoned(cmd.kind.String())
		}
	}
	p.metrics.QueueDepth(p.id, 0)

	if len(pending) > 0 {
		p.log.Info("discarded pending commands", slog.String("reason", reason), slog.Int("count", len(pending)))
	}
}

func (p *Process[S]) release(ctx context.Context) {
	p.queue.close()

	p.debugState(context.WithoutCancel(ctx), "process stopped")

	var zero S
	p.state = zero
}

// debugState logs the state's String at debug level. String is user code; a
// panic in it is recovered and the loop carries on.
func (p *Process[S]) debugState(ctx context.Context, msg string) {
	if !p.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	p.log.Debug(msg, slog.String("state", p.describe()))
}

func (p *Process[S]) describe() (out string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("state String panicked", slog.Any("recovered", r), slog.String("stack", string(debug.Stack())))
			out = "<unprintable>"
		}
	}()
	return p.state.String()
}
