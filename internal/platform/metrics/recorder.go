// Package metrics exposes judging workflow outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "verdict"
	subsystem        = "judging"
)

// Recorder implements ports.Metrics on its own registry so tests and
// processes never share collectors.
type Recorder struct {
	registry *prometheus.Registry

	certifications *prometheus.CounterVec
	signatures     *prometheus.CounterVec
	executions     *prometheus.CounterVec
	executedRows   *prometheus.CounterVec
	standings      *prometheus.HistogramVec
	skipped        *prometheus.CounterVec
}

func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = defaultNamespace
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		certifications: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "certifications_total",
			Help:      "Category and judge certification attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		signatures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "signatures_total",
			Help:      "Winner and quorum signatures by kind, role and outcome.",
		}, []string{"kind", "role", "outcome"}),
		executions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_executions_total",
			Help:      "Quorum request executions by kind.",
		}, []string{"kind"}),
		executedRows: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_affected_scores_total",
			Help:      "Scores deleted or uncertified by quorum request executions.",
		}, []string{"kind"}),
		standings: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "standings_duration_seconds",
			Help:      "Time to compute standings by scope.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		skipped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "standings_skipped_total",
			Help:      "Categories or contests left out of combined standings after a failure.",
		}, []string{"scope"}),
	}
}

func (r *Recorder) ObserveCertification(role string, outcome string) {
	r.certifications.WithLabelValues(role, outcome).Inc()
}

func (r *Recorder) ObserveSignature(kind string, role string, outcome string) {
	r.signatures.WithLabelValues(kind, role, outcome).Inc()
}

func (r *Recorder) ObserveExecution(kind string, affected int) {
	r.executions.WithLabelValues(kind).Inc()
	if affected > 0 {
		r.executedRows.WithLabelValues(kind).Add(float64(affected))
	}
}

func (r *Recorder) ObserveStandings(scope string, duration time.Duration) {
	r.standings.WithLabelValues(scope).Observe(duration.Seconds())
}

func (r *Recorder) ObserveSkipped(scope string) {
	r.skipped.WithLabelValues(scope).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
