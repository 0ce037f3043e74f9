package actor

import "github.com/codewandler/solo-go/core/metrics"

// Metrics is the instrumentation surface of a Process and its mailboxes.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// Command handling
	CommandDuration(kind string) metrics.Timer
	CommandProcessed(kind string, success bool)
	CommandPanic(kind string)

	// Queue
	QueueDepth(processID string, depth int)
	SubmissionFailed(kind string)

	// Replies resolved without a value.
	ReplyAbandoned(kind string)
}

type nopMetrics struct{}

func (nopMetrics) CommandDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) CommandProcessed(string, bool)        {}
func (nopMetrics) CommandPanic(string)                  {}

func (nopMetrics) QueueDepth(string, int)   {}
func (nopMetrics) SubmissionFailed(string) {}

func (nopMetrics) ReplyAbandoned(string) {}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
