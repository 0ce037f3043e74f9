// Package prometheus implements actor.Metrics on top of the Prometheus client.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/solo-go/core/metrics"
)

// timer wraps a Prometheus observer to implement metrics.Timer.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// Command handling is in-process, so buckets start well below a millisecond.
var defaultBuckets = []float64{
	.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1, 1,
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
