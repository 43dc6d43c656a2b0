package messaging

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
)

// NoopPublisher drops events; used when no broker is configured
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events
func NewNoopPublisher() core.EventPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, core.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
