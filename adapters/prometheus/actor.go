package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/solo-go/core/actor"
	"github.com/codewandler/solo-go/core/metrics"
)

// actorMetrics implements actor.Metrics using Prometheus.
type actorMetrics struct {
	commandDuration  *prometheus.HistogramVec
	commandsTotal    *prometheus.CounterVec
	panicsTotal      *prometheus.CounterVec
	queueDepth       *prometheus.GaugeVec
	submissionsLost  *prometheus.CounterVec
	repliesAbandoned *prometheus.CounterVec
}

// NewActorMetrics creates the Prometheus collectors and registers them with reg.
func NewActorMetrics(reg prometheus.Registerer) actor.Metrics {
	m := &actorMetrics{
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solo_actor_command_duration_seconds",
			Help:    "Command execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"kind"}),

		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solo_actor_commands_total",
			Help: "Total number of commands applied",
		}, []string{"kind", "success"}),

		panicsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solo_actor_panics_total",
			Help: "Total number of recovered payload panics",
		}, []string{"kind"}),

		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solo_actor_queue_depth",
			Help: "Commands waiting in the process queue",
		}, []string{"process"}),

		submissionsLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solo_actor_submissions_failed_total",
			Help: "Total number of submissions rejected because the process was gone",
		}, []string{"kind"}),

		repliesAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solo_actor_replies_abandoned_total",
			Help: "Total number of requests resolved without a value",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.commandDuration,
		m.commandsTotal,
		m.panicsTotal,
		m.queueDepth,
		m.submissionsLost,
		m.repliesAbandoned,
	)

	return m
}

func (m *actorMetrics) CommandDuration(kind string) metrics.Timer {
	return newTimer(m.commandDuration.WithLabelValues(kind))
}

func (m *actorMetrics) CommandProcessed(kind string, success bool) {
	m.commandsTotal.WithLabelValues(kind, boolToStr(success)).Inc()
}

func (m *actorMetrics) CommandPanic(kind string) {
	m.panicsTotal.WithLabelValues(kind).Inc()
}

func (m *actorMetrics) QueueDepth(processID string, depth int) {
	m.queueDepth.WithLabelValues(processID).Set(float64(depth))
}

func (m *actorMetrics) SubmissionFailed(kind string) {
	m.submissionsLost.WithLabelValues(kind).Inc()
}

func (m *actorMetrics) ReplyAbandoned(kind string) {
	m.repliesAbandoned.WithLabelValues(kind).Inc()
}

var _ actor.Metrics = (*actorMetrics)(nil)
