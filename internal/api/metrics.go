package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kalambet/pathcraft/internal/advisor"
	"github.com/kalambet/pathcraft/internal/career"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

// Submission outcomes recorded by the submissions counter.
const (
	outcomeSuccess  = "success"
	outcomeFailed   = "failed"
	outcomeBusy     = "busy"
	outcomeRejected = "incomplete"
)

// Metrics holds the Prometheus collectors for one dashboard process.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	advisorTime *prometheus.HistogramVec
}

// NewMetrics creates collectors registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathcraft_submissions_total",
				Help: "Career profile submissions by outcome",
			},
			[]string{"outcome"},
		),
		advisorTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathcraft_advisor_request_duration_seconds",
				Help:    "Duration of advisor calls",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.submissions, m.advisorTime)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (for tests and extra collectors).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveSubmission records the outcome of a Controller.Submit call.
func (m *Metrics) ObserveSubmission(err error) {
	if m == nil {
		return
	}
	var missing *career.MissingFieldsError
	switch {
	case err == nil:
		m.submissions.WithLabelValues(outcomeSuccess).Inc()
	case errors.Is(err, dashboard.ErrSubmitInProgress):
		m.submissions.WithLabelValues(outcomeBusy).Inc()
	case errors.As(err, &missing):
		m.submissions.WithLabelValues(outcomeRejected).Inc()
	default:
		m.submissions.WithLabelValues(outcomeFailed).Inc()
	}
}

// InstrumentAdvisor wraps a so every call's latency is recorded.
func (m *Metrics) InstrumentAdvisor(a advisor.Advisor) advisor.Advisor {
	return &instrumentedAdvisor{next: a, hist: m.advisorTime}
}

type instrumentedAdvisor struct {
	next advisor.Advisor
	hist *prometheus.HistogramVec
}

func (a *instrumentedAdvisor) Recommend(ctx context.Context, p career.Profile) (career.Recommendations, error) {
	start := time.Now()
	recs, err := a.next.Recommend(ctx, p)
	result := "ok"
	if err != nil {
		result = "error"
	}
	a.hist.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return recs, err
}
