// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes pipeline, client and session counters to
// Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ik5/audenhance/enhance"
)

// Request outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeServerError  = "server_error"
	OutcomeNetworkError = "network_error"
	OutcomeOther        = "other"
)

// Metrics contains all Prometheus metrics for audenhance. It satisfies
// audenhance.StageObserver, enhance.Observer and session.Observer.
type Metrics struct {
	registry *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec

	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	BytesSent       prometheus.Counter
	BytesReceived   prometheus.Counter

	Transitions *prometheus.CounterVec
}

// New creates all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audenhance_stage_duration_seconds",
			Help:    "Time spent in each local pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"stage"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audenhance_stage_errors_total",
			Help: "Total number of failed pipeline stages",
		}, []string{"stage"}),

		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audenhance_enhance_requests_total",
			Help: "Total number of enhancement requests by outcome",
		}, []string{"outcome"}),
		RequestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "audenhance_enhance_duration_seconds",
			Help:    "Duration of enhancement requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3 minutes
		}),
		BytesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "audenhance_enhance_sent_bytes_total",
			Help: "Canonical audio bytes uploaded",
		}),
		BytesReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "audenhance_enhance_received_bytes_total",
			Help: "Enhanced audio bytes downloaded",
		}),

		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audenhance_session_transitions_total",
			Help: "Session state transitions",
		}, []string{"from", "to"}),
	}
}

// Registry is the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) ObserveRequest(elapsed time.Duration, sent, received int, err error) {
	m.Requests.WithLabelValues(Outcome(err)).Inc()
	m.RequestDuration.Observe(elapsed.Seconds())
	m.BytesSent.Add(float64(sent))
	m.BytesReceived.Add(float64(received))
}

func (m *Metrics) ObserveTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Outcome labels a request error.
func Outcome(err error) string {
	var se *enhance.ServerError
	var ne *enhance.NetworkError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &se):
		return OutcomeServerError
	case errors.As(err, &ne):
		return OutcomeNetworkError
	default:
		return OutcomeOther
	}
}
