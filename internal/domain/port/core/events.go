package core

import (
	"context"
	"time"
)

// Event types published after a record reaches a terminal state
const (
	EventChargeSucceeded  = "charge.succeeded"
	EventChargeFailed     = "charge.failed"
	EventTransferCreated  = "transfer.created"
	EventTransferFailed   = "transfer.failed"
	EventCustomerCreated  = "customer.created"
	EventRecipientCreated = "recipient.created"
)

// Event is a notification about a gateway-backed record
type Event struct {
	Type        string         `json:"type"`
	Environment string         `json:"environment"`
	Token       string         `json:"token,omitempty"`
	RecordID    uint64         `json:"record_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Data        map[string]any `json:"data,omitempty"`
}

// EventPublisher delivers events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
