package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests   *prometheus.CounterVec
	CounterAuthEvents *prometheus.CounterVec
	CounterCacheHits  prometheus.Counter
	CounterCacheMiss  prometheus.Counter

	// gauges
	GaugeRequestsInFlight prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("goliath", "test_client", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("goliath", "test_client", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request",
		Help:      "The total number of outgoing goliath api requests",
	}, []string{"method", "status"})
	counterAuthEvents := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auth_event",
		Help:      "The total number of auth state changes and auth operations",
	}, []string{"event"})
	counterCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_cache_hit",
		Help:      "The total number of api reads served from the response cache",
	})
	counterCacheMiss := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_cache_miss",
		Help:      "The total number of api reads not found in the response cache",
	})

	gaugeRequestsInFlight := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_requests_in_flight",
		Help:      "Current number of goliath api requests waiting for a response",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Histogram of goliath api response time in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:          counterRequests,
		CounterAuthEvents:        counterAuthEvents,
		CounterCacheHits:         counterCacheHits,
		CounterCacheMiss:         counterCacheMiss,
		GaugeRequestsInFlight:    gaugeRequestsInFlight,
		HistogramRequestDuration: histogramRequestDuration,
	}
}
