package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the spothinta cache daemon
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spothinta_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_provider_requests_total",
			Help: "Total number of requests to the spot-hinta.fi API",
		},
		[]string{"region", "status_code"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spothinta_provider_request_duration_seconds",
			Help:    "spot-hinta.fi API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 15.0},
		},
		[]string{"region"},
	)

	DroppedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_dropped_records_total",
			Help: "Total number of malformed provider records dropped during decode",
		},
		[]string{"region"},
	)

	// Cache Metrics
	RefreshDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_refresh_decisions_total",
			Help: "Refresh policy evaluations by outcome",
		},
		[]string{"region", "decision"}, // decision: due/fresh
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_refreshes_total",
			Help: "Completed refresh attempts by result",
		},
		[]string{"region", "result"}, // result: success/error
	)

	ResolverFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_resolver_fallbacks_total",
			Help: "Price resolutions that fell back to the last series entry",
		},
		[]string{"region", "reason"}, // reason: no_candidate/missing_field
	)

	SeriesPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_series_points",
			Help: "Number of price points currently cached per region",
		},
		[]string{"region"},
	)

	LastFetchTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_last_fetch_timestamp_seconds",
			Help: "Unix timestamp of the last successful fetch per region",
		},
		[]string{"region"},
	)

	// Business Metrics
	CurrentPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_current_price",
			Help: "Current spot electricity price per region and variant",
		},
		[]string{"region", "variant"},
	)

	MinPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_min_price",
			Help: "Minimum tax-inclusive price over the cached series",
		},
		[]string{"region"},
	)

	MaxPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_max_price",
			Help: "Maximum tax-inclusive price over the cached series",
		},
		[]string{"region"},
	)

	// Snapshot persistence metrics
	SnapshotOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spothinta_snapshot_operations_total",
			Help: "Snapshot store operations by result",
		},
		[]string{"operation", "result"}, // operation: load/save, result: success/miss/error
	)

	// Stream metrics
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spothinta_stream_clients",
			Help: "Number of connected price stream subscribers",
		},
	)

	ServiceInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spothinta_service_info",
			Help: "Service metadata",
		},
		[]string{"version", "snapshot_backend"},
	)
)

// RecordHTTPRequest records metrics for one processed HTTP request.
func RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordProviderRequest records one outbound request to the provider.
// statusCode 0 means the request never produced an HTTP response.
func RecordProviderRequest(region string, statusCode int, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(region, strconv.Itoa(statusCode)).Inc()
	ProviderRequestDuration.WithLabelValues(region).Observe(duration.Seconds())
}

// RecordDroppedRecords adds n to the dropped-record counter for region.
func RecordDroppedRecords(region string, n int) {
	if n > 0 {
		DroppedRecordsTotal.WithLabelValues(region).Add(float64(n))
	}
}

// RecordRefreshDecision records one refresh policy evaluation.
func RecordRefreshDecision(region string, due bool) {
	decision := "fresh"
	if due {
		decision = "due"
	}
	RefreshDecisionsTotal.WithLabelValues(region, decision).Inc()
}

// RecordRefresh records one completed refresh attempt.
func RecordRefresh(region string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RefreshesTotal.WithLabelValues(region, result).Inc()
}

// RecordResolverFallback records that a price resolution took the
// last-entry fallback path.
func RecordResolverFallback(region, reason string) {
	ResolverFallbacksTotal.WithLabelValues(region, reason).Inc()
}

// RecordInstall updates the per-region gauges after a series install.
func RecordInstall(region string, points int, lastFetch time.Time, minPrice, maxPrice *float64) {
	SeriesPoints.WithLabelValues(region).Set(float64(points))
	LastFetchTimestamp.WithLabelValues(region).Set(float64(lastFetch.Unix()))
	if minPrice != nil {
		MinPrice.WithLabelValues(region).Set(*minPrice)
	}
	if maxPrice != nil {
		MaxPrice.WithLabelValues(region).Set(*maxPrice)
	}
}

// RecordCurrentPrice updates the current price gauge for a region/variant.
func RecordCurrentPrice(region, variant string, price float64) {
	CurrentPrice.WithLabelValues(region, variant).Set(price)
}

// RecordSnapshotOperation records one snapshot store load/save.
func RecordSnapshotOperation(operation, result string) {
	SnapshotOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetServiceInfo publishes service metadata as a gauge.
func SetServiceInfo(version, snapshotBackend string) {
	ServiceInfo.WithLabelValues(version, snapshotBackend).Set(1)
}
