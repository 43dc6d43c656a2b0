package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	t.Run("Gateway requests", func(t *testing.T) {
		m.ObserveGatewayRequest("test", "POST", "charges", 201, 120*time.Millisecond)
		m.ObserveGatewayRequest("test", "POST", "charges", 0, time.Second)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequests.WithLabelValues("test", "POST", "charges", "201")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequests.WithLabelValues("test", "POST", "charges", "error")))
	})

	t.Run("Charges", func(t *testing.T) {
		m.IncCharge("live", true)
		m.IncCharge("live", false)
		m.IncCharge("live", false)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.charges.WithLabelValues("live", "succeeded")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.charges.WithLabelValues("live", "failed")))
	})

	t.Run("Transfers and syncs", func(t *testing.T) {
		m.IncTransfer("test", "pending")
		m.AddSynced("test", "plans", 3, 2)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues("test", "pending")))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.synced.WithLabelValues("test", "plans", "created")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.synced.WithLabelValues("test", "plans", "updated")))
	})

	t.Run("Handler exposes registry", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(body), "pinpayments_charges_total"))
	})
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()
	assert.NotPanics(t, func() {
		m.ObserveGatewayRequest("test", "GET", "plans", 200, time.Millisecond)
		m.IncCharge("test", true)
		m.IncTransfer("test", "paid")
		m.AddSynced("test", "plans", 1, 1)
	})
}
