package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	requestDuration *prom.HistogramVec
	requestResults  *prom.CounterVec
	inFlight        *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the request metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "resume_wizard",
			Name:      "request_duration_seconds",
			Help:      "Duration of generation and export requests",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"operation", "outcome"}),
		requestResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "resume_wizard",
			Name:      "request_results_total",
			Help:      "Request outcomes by operation",
		}, []string{"operation", "outcome"}),
		inFlight: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "resume_wizard",
			Name:      "requests_in_flight",
			Help:      "Requests currently awaiting a response",
		}, []string{"operation"}),
	}
	reg.MustRegister(pr.requestDuration, pr.requestResults, pr.inFlight)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveRequest(operation string, d time.Duration, outcome Outcome) {
	if p == nil {
		return
	}
	p.requestDuration.WithLabelValues(operation, string(outcome)).Observe(d.Seconds())
	p.requestResults.WithLabelValues(operation, string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddInFlight(operation string, delta int) {
	if p == nil {
		return
	}
	p.inFlight.WithLabelValues(operation).Add(float64(delta))
}

// WriteTextfile dumps the registry in the text exposition format, suitable for
// the node_exporter textfile collector. Short-lived CLI runs use it instead of
// serving /metrics.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
