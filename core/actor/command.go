package actor

// Kind tags the variant of a Command.
type Kind uint8

const (
	KindInspect Kind = iota
	KindMutate
	KindInspectReply
	KindMutateReply
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindInspect:
		return "inspect"
	case KindMutate:
		return "mutate"
	case KindInspectReply:
		return "inspect_reply"
	case KindMutateReply:
		return "mutate_reply"
	case KindStop:
		return "stop"
	default:
		return "unknown"
	}
}

// State is the capability a type opts into to be owned by a Process.
// String is used for diagnostics only.
type State interface {
	String() string
}

// Command is one deferred unit of work against the state of a Process.
// Its fields are fixed at construction; a Command is applied at most once.
type Command[S State] struct {
	kind    Kind
	inspect func(S)
	mutate  func(*S)

	// abandon resolves the attached reply (if any) without a value and
	// reports whether it had still been pending.
	abandon func(cause error) bool
}

// Inspect builds a command that runs fn with a copy of the state.
func Inspect[S State](fn func(S)) Command[S] {
	return Command[S]{kind: KindInspect, inspect: fn}
}

// Mutate builds a command that runs fn with exclusive access to the state.
func Mutate[S State](fn func(*S)) Command[S] {
	return Command[S]{kind: KindMutate, mutate: fn}
}

// Stop builds a command that ends the Process loop once it is reached.
func Stop[S State]() Command[S] {
	return Command[S]{kind: KindStop}
}

// Kind reports the variant of the command.
func (c Command[S]) Kind() Kind { return c.kind }

func (c Command[S]) apply(st *S) {
	switch c.kind {
	case KindInspect, KindInspectReply:
		if c.inspect != nil {
			c.inspect(*st)
		}
	case KindMutate, KindMutateReply:
		if c.mutate != nil {
			c.mutate(st)
		}
	}
}

// release abandons a reply that was never sent. It reports true when a
// waiter is left without a value.
func (c Command[S]) release(cause error) bool {
	if c.abandon == nil {
		return false
	}
	return c.abandon(cause)
}
