// Package metrics records outcomes and latencies of the generation and export requests.
package metrics

import "time"

// Operation names used as metric labels.
const (
	OperationGenerate = "generate"
	OperationExport   = "export"
)

// Outcome enumerates request result categories for counters.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFailure    Outcome = "failure"
	OutcomeSuperseded Outcome = "superseded"
)

// Recorder defines observability hooks for network operations. Implementations
// may forward to Prometheus; NoopRecorder is the default when metrics are off.
type Recorder interface {
	ObserveRequest(operation string, d time.Duration, outcome Outcome)
	AddInFlight(operation string, delta int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, time.Duration, Outcome) {}
func (NoopRecorder) AddInFlight(string, int)                       {}
