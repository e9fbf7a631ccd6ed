// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Market fetch metrics
	MarketFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_dashboard_market_fetches_total",
			Help: "Total number of market snapshot fetches",
		},
		[]string{"status"}, // status: success|error
	)

	MarketFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crypto_dashboard_market_fetch_duration_seconds",
			Help:    "Market snapshot fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	MarketLastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crypto_dashboard_market_last_success_timestamp",
			Help: "Unix timestamp of the last successful market fetch",
		},
	)

	// Alert metrics
	AlertsFired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crypto_dashboard_alerts_fired_total",
			Help: "Total number of price alerts that fired",
		},
	)

	// Access gate metrics
	CapacityRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_dashboard_capacity_rejections_total",
			Help: "Creates rejected by the free-tier limits",
		},
		[]string{"store"}, // store: portfolio|alerts
	)

	Payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_dashboard_payments_total",
			Help: "Completed payment attempts by outcome",
		},
		[]string{"status"},
	)

	// Realtime metrics
	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crypto_dashboard_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(MarketFetches)
		prometheus.MustRegister(MarketFetchDuration)
		prometheus.MustRegister(MarketLastSuccess)
		prometheus.MustRegister(AlertsFired)
		prometheus.MustRegister(CapacityRejections)
		prometheus.MustRegister(Payments)
		prometheus.MustRegister(WebsocketClients)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordMarketFetch records one fetch attempt.
func RecordMarketFetch(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	MarketFetches.WithLabelValues(status).Inc()
	MarketFetchDuration.Observe(duration.Seconds())
	if err == nil {
		MarketLastSuccess.SetToCurrentTime()
	}
}

// RecordCapacityRejection records a create refused by a free-tier limit.
func RecordCapacityRejection(store string) {
	CapacityRejections.WithLabelValues(store).Inc()
}

// RecordPayment records a delivered payment result.
func RecordPayment(status string) {
	Payments.WithLabelValues(status).Inc()
}
