package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatmesh"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	TokensIssued     prometheus.Counter
	TokenValidations *prometheus.CounterVec
	SessionsCreated  prometheus.Counter

	ChatTurns        *prometheus.CounterVec
	ProviderFailures prometheus.Counter
	ProviderLatency  prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the Go and process collectors and all
// chatmesh metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "tokens_issued_total",
			Help:      "Bearer tokens issued.",
		}),
		TokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_validations_total",
			Help:      "Token validations by result (valid, missing, expired).",
		}, []string{"result"}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "created_total",
			Help:      "Sessions created, explicitly or by a chat turn.",
		}),

		ChatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Completed chat turns by outcome (normal, irregular, fallback).",
		}, []string{"outcome"}),
		ProviderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "failures_total",
			Help:      "Completion provider calls that failed.",
		}),
		ProviderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Completion provider call latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.TokensIssued,
		r.TokenValidations,
		r.SessionsCreated,
		r.ChatTurns,
		r.ProviderFailures,
		r.ProviderLatency,
		r.HTTPRequests,
		r.HTTPDuration,
	)
	return r
}

// Register adds extra collectors to the registry.
func (r *Registry) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// TokenIssued counts one issued token.
func (r *Registry) TokenIssued() {
	r.TokensIssued.Inc()
}

// TokenValidated counts one validation with its result label.
func (r *Registry) TokenValidated(result string) {
	r.TokenValidations.WithLabelValues(result).Inc()
}

// SessionCreated counts one created session.
func (r *Registry) SessionCreated() {
	r.SessionsCreated.Inc()
}

// ChatTurn counts one completed chat turn.
func (r *Registry) ChatTurn(outcome string) {
	r.ChatTurns.WithLabelValues(outcome).Inc()
}

// ProviderCall records the latency of one provider call and counts failures.
func (r *Registry) ProviderCall(elapsed time.Duration, err error) {
	r.ProviderLatency.Observe(elapsed.Seconds())
	if err != nil {
		r.ProviderFailures.Inc()
	}
}

// ObserveHTTP records one served HTTP request.
func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
