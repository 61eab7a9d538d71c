package metric

import "github.com/prometheus/client_golang/prometheus"

// Counter reports the number of records a store currently holds.
type Counter interface {
	Count() int
}

// StoreCollector reports live token and session counts at scrape time.
type StoreCollector struct {
	tokens   Counter
	sessions Counter

	tokensDesc   *prometheus.Desc
	sessionsDesc *prometheus.Desc
}

var _ prometheus.Collector = (*StoreCollector)(nil)

// NewStoreCollector creates a collector over the given stores.
func NewStoreCollector(tokens, sessions Counter) *StoreCollector {
	return &StoreCollector{
		tokens:   tokens,
		sessions: sessions,
		tokensDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "auth", "tokens_stored"),
			"Tokens currently held in memory, including expired ones not yet evicted.",
			nil, nil,
		),
		sessionsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "sessions_stored"),
			"Sessions currently held in memory.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tokensDesc
	ch <- c.sessionsDesc
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.tokensDesc, prometheus.GaugeValue, float64(c.tokens.Count()))
	ch <- prometheus.MustNewConstMetric(c.sessionsDesc, prometheus.GaugeValue, float64(c.sessions.Count()))
}
