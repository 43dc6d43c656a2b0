package core

import (
	"context"

	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a testify mock of core.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock and registers its expectation check with t
func NewMockEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventPublisher) Publish(ctx context.Context, event coreport.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Published returns the events passed to Publish, in call order
func (m *MockEventPublisher) Published() []coreport.Event {
	var events []coreport.Event
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			events = append(events, call.Arguments.Get(1).(coreport.Event))
		}
	}
	return events
}
