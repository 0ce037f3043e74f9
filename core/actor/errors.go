package actor

import (
	"errors"
	"fmt"
)

var (
	// Submission errors
	ErrSubmissionFailed    = errors.New("submission failed: process is gone")
	ErrRequestNotDelivered = errors.New("request not delivered: process is gone")

	// Reply errors
	ErrNoReply       = errors.New("no reply: reply dropped without a value")
	ErrReplyConsumed = errors.New("reply already consumed")

	// Lifecycle errors
	ErrAlreadyRunning = errors.New("process already running")
)

// PanicError is the reply error of a command whose payload panicked.
// It unwraps to ErrNoReply.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: payload panicked: %v", ErrNoReply, e.Value)
}

func (e *PanicError) Unwrap() error { return ErrNoReply }
