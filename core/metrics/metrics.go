// Package metrics holds the backend-neutral instrumentation types used by the
// actor core. Backends such as Prometheus live in adapters/.
package metrics

// Timer measures one operation. Call ObserveDuration when it completes.
type Timer interface {
	ObserveDuration()
}

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

// NopTimer returns a Timer that records nothing.
func NopTimer() Timer { return nopTimer{} }
