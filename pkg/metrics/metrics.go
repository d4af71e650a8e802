package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the till. Each instance owns its registry so
// tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Sale metrics
	SalesCompleted *prometheus.CounterVec
	SalesRevenue   *prometheus.CounterVec
	Refunds        prometheus.Counter
	LedgerCleared  *prometheus.CounterVec

	// Cart metrics
	LinesAdded      *prometheus.CounterVec
	StockRejections prometheus.Counter
	CartTotal       prometheus.Gauge

	// Persistence metrics
	SnapshotWrites *prometheus.CounterVec
}

// New registers every collector under the given prefix (e.g. "stall_pos").
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		SalesCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sales_completed_total",
				Help: "Completed sales by payment type",
			},
			[]string{"payment_type"},
		),
		SalesRevenue: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sales_revenue_total",
				Help: "Revenue of completed sales by payment type",
			},
			[]string{"payment_type"},
		),
		Refunds: f.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_refunds_total",
				Help: "Sales removed from the ledger by refund",
			},
		),
		LedgerCleared: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ledger_cleared_sales_total",
				Help: "Sales removed by clear-today or clear-all",
			},
			[]string{"scope"},
		),
		LinesAdded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_cart_lines_added_total",
				Help: "Units added to the cart by source",
			},
			[]string{"source"},
		),
		StockRejections: f.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_stock_rejections_total",
				Help: "Attempts to sell an item that is out of stock",
			},
		),
		CartTotal: f.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_cart_total",
				Help: "Running total of the sale in progress",
			},
		),
		SnapshotWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_snapshot_writes_total",
				Help: "Snapshot writes by key and result",
			},
			[]string{"key", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// The recorders below are safe to call on a nil *Metrics so services can run
// without a registry.

// RecordSale counts a completed sale and its revenue.
func (m *Metrics) RecordSale(paymentType string, total float64) {
	if m == nil {
		return
	}
	m.SalesCompleted.WithLabelValues(paymentType).Inc()
	m.SalesRevenue.WithLabelValues(paymentType).Add(total)
}

// RecordRefund counts a refunded sale.
func (m *Metrics) RecordRefund() {
	if m == nil {
		return
	}
	m.Refunds.Inc()
}

// RecordCleared counts sales dropped by a bulk clear.
func (m *Metrics) RecordCleared(scope string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LedgerCleared.WithLabelValues(scope).Add(float64(n))
}

// RecordLinesAdded counts units added to the cart.
func (m *Metrics) RecordLinesAdded(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LinesAdded.WithLabelValues(source).Add(float64(n))
}

// RecordStockRejection counts an attempt to sell an item with no stock.
func (m *Metrics) RecordStockRejection() {
	if m == nil {
		return
	}
	m.StockRejections.Inc()
}

// SetCartTotal publishes the running cart total.
func (m *Metrics) SetCartTotal(total float64) {
	if m == nil {
		return
	}
	m.CartTotal.Set(total)
}

// RecordSnapshotWrite counts a persistence attempt.
func (m *Metrics) RecordSnapshotWrite(key string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SnapshotWrites.WithLabelValues(key, result).Inc()
}
