package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRPC("/backoffice.v1.SettlementService/MarkPaid", "ok", 0.01)
	m.ObserveRPC("/backoffice.v1.SettlementService/MarkPaid", "ok", 0.02)
	m.ObservePayment(PaymentPartial, 2000)
	m.ObservePayment(PaymentFull, 3333)
	m.ObserveReconcile(2, 1, 0, 3)
	m.ObserveConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/backoffice.v1.SettlementService/MarkPaid", "ok")))
	assert.Equal(t, 5333.0, testutil.ToFloat64(m.paidCents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues(PaymentPartial)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pendingGauge))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP backoffice_settlement_proposals_total PENDING settlements touched by reconciliation, by result.
# TYPE backoffice_settlement_proposals_total counter
backoffice_settlement_proposals_total{result="created"} 2
backoffice_settlement_proposals_total{result="deleted"} 0
backoffice_settlement_proposals_total{result="updated"} 1
`), "backoffice_settlement_proposals_total")
	require.NoError(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", 1)
		m.ObservePayment(PaymentFull, 1)
		m.ObserveReconcile(1, 1, 1, 1)
		m.ObserveConflict()
	})
}
