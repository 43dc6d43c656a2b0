package metrics

import (
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
)

// NoopMetrics discards all observations
type NoopMetrics struct{}

// NewNoopMetrics creates a metrics sink that records nothing
func NewNoopMetrics() core.Metrics {
	return NoopMetrics{}
}

func (NoopMetrics) ObserveGatewayRequest(string, string, string, int, time.Duration) {}

func (NoopMetrics) IncCharge(string, bool) {}

func (NoopMetrics) IncTransfer(string, string) {}

func (NoopMetrics) AddSynced(string, string, int, int) {}
