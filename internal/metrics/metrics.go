// Package metrics exposes the process counters scraped from /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests by method, route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medstore_http_requests_total",
		Help: "HTTP requests served, by method, route and status class.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medstore_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CheckoutsTotal counts finalized sales.
	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medstore_checkouts_total",
		Help: "Sales finalized through checkout.",
	})

	// SaleAmountCents observes finalized sale totals.
	SaleAmountCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medstore_sale_amount_cents",
		Help:    "Distribution of finalized sale totals in cents.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	})

	// CatalogSize tracks the number of medicines in the catalog.
	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "medstore_catalog_size",
		Help: "Medicines currently tracked in the catalog.",
	})
)

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
