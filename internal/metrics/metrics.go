package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_search_requests_total",
			Help: "Total event searches by outcome",
		},
		[]string{"status"},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_search_duration_seconds",
			Help:    "Duration of event searches including the count query",
			Buckets: prometheus.DefBuckets,
		},
	)

	searchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_search_results",
			Help:    "Number of events returned per search page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	searchFilters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_search_filters_total",
			Help: "Filters applied to searches",
		},
		[]string{"filter"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_search_cache_total",
			Help: "Search cache lookups by result",
		},
		[]string{"result"},
	)

	analyticsEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics events by outcome",
		},
		[]string{"event_type", "outcome"},
	)

	analyticsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_queue_depth",
			Help: "Analytics events waiting to be written",
		},
	)
)

// TrackSearch records one search
func TrackSearch(status string, d time.Duration, results int, filters []string) {
	searchRequests.WithLabelValues(status).Inc()
	searchDuration.Observe(d.Seconds())
	if status == "ok" {
		searchResults.Observe(float64(results))
	}
	for _, f := range filters {
		searchFilters.WithLabelValues(f).Inc()
	}
}

// CacheHit counts a search served from cache
func CacheHit() { cacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss counts a search that went to the database
func CacheMiss() { cacheLookups.WithLabelValues("miss").Inc() }

// CacheError counts a cache failure that fell back to the database
func CacheError() { cacheLookups.WithLabelValues("error").Inc() }

// Analytics outcomes
const (
	AnalyticsEmitted = "emitted"
	AnalyticsWritten = "written"
	AnalyticsDropped = "dropped"
	AnalyticsFailed  = "failed"
)

// TrackAnalytics counts an analytics event outcome
func TrackAnalytics(eventType, outcome string) {
	analyticsEvents.WithLabelValues(eventType, outcome).Inc()
}

// SetAnalyticsQueueDepth reports the emitter backlog
func SetAnalyticsQueueDepth(n int) {
	analyticsQueueDepth.Set(float64(n))
}
