package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	CheckoutViews *prometheus.CounterVec
	SalesCreated  *prometheus.CounterVec
	SalesPaid     *prometheus.CounterVec
	Uploads       *prometheus.CounterVec
	HTTPLatency   *prometheus.HistogramVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			CheckoutViews: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkout_views_total",
				Help:      "Public checkout page loads.",
			}, []string{"source"}),
			SalesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sales_created_total",
				Help:      "Sales recorded at checkout submission by payment method.",
			}, []string{"method"}),
			SalesPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sales_paid_total",
				Help:      "Sales transitioned to paid by payment method.",
			}, []string{"method"}),
			Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "File uploads by outcome.",
			}, []string{"status"}),
			HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency distribution for HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route", "status"}),
		}

		prometheus.MustRegister(
			metricsInstance.CheckoutViews,
			metricsInstance.SalesCreated,
			metricsInstance.SalesPaid,
			metricsInstance.Uploads,
			metricsInstance.HTTPLatency,
		)
	})
	return metricsInstance
}
