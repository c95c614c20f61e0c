package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRequestsTotal   = "cache_requests_total"
	MetricHitsTotal       = "cache_hits_total"
	MetricMissesTotal     = "cache_misses_total"
	MetricNetworkFailures = "cache_network_failures_total"
	MetricOfflinePages    = "cache_offline_pages_total"
	MetricWriteFailures   = "cache_write_failures_total"
)

// Metrics contains Prometheus metrics for dispatcher operations.
// All operations are thread-safe.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	hitsTotal       *prometheus.CounterVec
	missesTotal     *prometheus.CounterVec
	networkFailures *prometheus.CounterVec
	offlinePages    prometheus.Counter
	writeFailures   *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call Register
// to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Total number of requests handled, by strategy class",
			},
			[]string{"class"},
		),
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHitsTotal,
				Help: "Total number of requests satisfied from a cache store",
			},
			[]string{"class", "store"},
		),
		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricMissesTotal,
				Help: "Total number of cache lookups that found no entry",
			},
			[]string{"class", "store"},
		),
		networkFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNetworkFailures,
				Help: "Total number of failed network fetches, by strategy class",
			},
			[]string{"class"},
		),
		offlinePages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricOfflinePages,
				Help: "Total number of synthesized offline pages served",
			},
		),
		writeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricWriteFailures,
				Help: "Total number of best-effort cache writes that failed",
			},
			[]string{"store"},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.hitsTotal,
		m.missesTotal,
		m.networkFailures,
		m.offlinePages,
		m.writeFailures,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// The recording helpers below are nil-safe so the dispatcher can run
// without metrics wired (tests, tools).

func (m *Metrics) recordRequest(class Class) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(class.String()).Inc()
}

func (m *Metrics) recordHit(class Class, store string) {
	if m == nil {
		return
	}
	m.hitsTotal.WithLabelValues(class.String(), store).Inc()
}

func (m *Metrics) recordMiss(class Class, store string) {
	if m == nil {
		return
	}
	m.missesTotal.WithLabelValues(class.String(), store).Inc()
}

func (m *Metrics) recordNetworkFailure(class Class) {
	if m == nil {
		return
	}
	m.networkFailures.WithLabelValues(class.String()).Inc()
}

func (m *Metrics) recordOfflinePage() {
	if m == nil {
		return
	}
	m.offlinePages.Inc()
}

func (m *Metrics) recordWriteFailure(store string) {
	if m == nil {
		return
	}
	m.writeFailures.WithLabelValues(store).Inc()
}
