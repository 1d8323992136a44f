// Package metrics holds the Prometheus instruments for token caching, auth
// fetches and log queries. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logid"

// Metrics holds all Prometheus metrics for a logid process.
type Metrics struct {
	TokenCacheHits   *prometheus.CounterVec
	TokenCacheMisses *prometheus.CounterVec
	AuthFetches      *prometheus.CounterVec
	QueriesTotal     *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	ItemsReturned    *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TokenCacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_cache_hits_total",
			Help:      "Token requests served from the cache.",
		}, []string{"region"}),
		TokenCacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_cache_misses_total",
			Help:      "Token requests that required a fetch (expired, empty or forced).",
		}, []string{"region"}),
		AuthFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "fetches_total",
			Help:      "Token fetches by outcome.",
		}, []string{"region", "outcome"}), // outcome: ok, rejected, no_token, network
		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Log queries by outcome.",
		}, []string{"region", "outcome"}), // outcome: ok, error
		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Log query round-trip time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"region"}),
		ItemsReturned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "items_total",
			Help:      "Log items returned by successful queries.",
		}, []string{"region"}),
	}
}

func (m *Metrics) CacheHit(region string) {
	if m != nil {
		m.TokenCacheHits.WithLabelValues(region).Inc()
	}
}

func (m *Metrics) CacheMiss(region string) {
	if m != nil {
		m.TokenCacheMisses.WithLabelValues(region).Inc()
	}
}

func (m *Metrics) AuthFetch(region, outcome string) {
	if m != nil {
		m.AuthFetches.WithLabelValues(region, outcome).Inc()
	}
}

// Query records one finished query.
func (m *Metrics) Query(region string, elapsed time.Duration, items int, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.QueriesTotal.WithLabelValues(region, outcome).Inc()
	m.QueryDuration.WithLabelValues(region).Observe(elapsed.Seconds())
	if err == nil {
		m.ItemsReturned.WithLabelValues(region).Add(float64(items))
	}
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
