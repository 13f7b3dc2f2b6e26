// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "backoffice"

// Payment kinds recorded by ObservePayment.
const (
	PaymentFull    = "full"
	PaymentPartial = "partial"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests  *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	payments     *prometheus.CounterVec
	paidCents    prometheus.Counter
	proposals    *prometheus.CounterVec
	conflicts    prometheus.Counter
	pendingGauge prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_payments_total",
			Help:      "Settlement payments recorded, by kind.",
		}, []string{"kind"}),
		paidCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_paid_cents_total",
			Help:      "Sum of all recorded settlement payments, in cents.",
		}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_proposals_total",
			Help:      "PENDING settlements touched by reconciliation, by result.",
		}, []string{"result"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_conflicts_total",
			Help:      "Settlement writes rejected because of a state or version conflict.",
		}),
		pendingGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settlements_pending",
			Help:      "PENDING settlements after the last reconciliation.",
		}),
	}

	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.payments, m.paidCents, m.proposals, m.conflicts, m.pendingGauge)
	return m
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors in addition to the server's own.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, New(reg)
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObservePayment records a full or partial settlement payment.
func (m *Metrics) ObservePayment(kind string, cents int64) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(kind).Inc()
	m.paidCents.Add(float64(cents))
}

// ObserveReconcile records the outcome of a settlement reconciliation.
func (m *Metrics) ObserveReconcile(created, updated, deleted, pending int) {
	if m == nil {
		return
	}
	m.proposals.WithLabelValues("created").Add(float64(created))
	m.proposals.WithLabelValues("updated").Add(float64(updated))
	m.proposals.WithLabelValues("deleted").Add(float64(deleted))
	m.pendingGauge.Set(float64(pending))
}

// ObserveConflict records a rejected settlement write.
func (m *Metrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}
