package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coat_terminal"

// Metrics holds the Prometheus collectors for lookups, fetches and decisions.
// All helper methods are safe to call on a nil *Metrics.
type Metrics struct {
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherAPIDuration prometheus.Histogram

	GeocodeRequests *prometheus.CounterVec // labels: method={search,reverse}, outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	LocateRequests *prometheus.CounterVec // labels: outcome={success,permission_denied,unsupported,unavailable}

	Decisions     *prometheus.CounterVec // labels: take_coat={true,false}
	DecisionRules *prometheus.CounterVec // labels: reason
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.LocateRequests,
		m.Decisions,
		m.DecisionRules,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Forecast provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Forecast provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Place-name cache lookups by result.",
		}, []string{"result"}),
		LocateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locate_requests_total",
			Help:      "Geolocation lookups by outcome.",
		}, []string{"outcome"}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Coat decisions by recommendation.",
		}, []string{"take_coat"}),
		DecisionRules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_rules_total",
			Help:      "Coat rules that fired, by reason.",
		}, []string{"reason"}),
	}
}

// ObserveWeather records one forecast request.
func (m *Metrics) ObserveWeather(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.WeatherRequests.WithLabelValues(outcome).Inc()
	m.WeatherAPIDuration.Observe(d.Seconds())
}

// ObserveGeocode records one geocoding request.
func (m *Metrics) ObserveGeocode(method, outcome string) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(method, outcome).Inc()
}

// ObserveCache records a place-name cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.GeocodeCache.WithLabelValues(result).Inc()
}

// ObserveLocate records one geolocation lookup.
func (m *Metrics) ObserveLocate(outcome string) {
	if m == nil {
		return
	}
	m.LocateRequests.WithLabelValues(outcome).Inc()
}

// ObserveDecision records a recommendation and the rules behind it.
func (m *Metrics) ObserveDecision(takeCoat bool, reasons []string) {
	if m == nil {
		return
	}
	label := "false"
	if takeCoat {
		label = "true"
	}
	m.Decisions.WithLabelValues(label).Inc()
	for _, r := range reasons {
		m.DecisionRules.WithLabelValues(r).Inc()
	}
}
