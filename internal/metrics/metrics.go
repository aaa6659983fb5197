// Package metrics defines the Prometheus collectors dilutionwise exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dilutionwise"

// Metrics groups the collectors. Each server owns one, registered on its
// own registry so tests never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	Calculations     *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
	Deliveries       *prometheus.CounterVec
	DeliveriesPruned prometheus.Counter
}

// New creates and registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Dilution calculations by outcome (ok, invalid_input).",
		}, []string{"outcome"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency by procedure and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_deliveries_total",
			Help:      "Report emails by delivery status (sent, failed).",
		}, []string{"status"}),
		DeliveriesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_pruned_total",
			Help:      "Delivery log records removed by retention pruning.",
		}),
	}

	m.Registry.MustRegister(
		m.Calculations,
		m.RPCDuration,
		m.Deliveries,
		m.DeliveriesPruned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// CalculationOK and CalculationInvalid are the outcome label values.
const (
	CalculationOK      = "ok"
	CalculationInvalid = "invalid_input"
)
