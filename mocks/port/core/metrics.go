package core

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockMetrics is a testify mock of core.Metrics
type MockMetrics struct {
	mock.Mock
}

// NewMockMetrics creates a mock and registers its expectation check with t
func NewMockMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMetrics {
	m := &MockMetrics{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMetrics) ObserveGatewayRequest(environment, method, endpoint string, status int, duration time.Duration) {
	m.Called(environment, method, endpoint, status, duration)
}

func (m *MockMetrics) IncCharge(environment string, succeeded bool) {
	m.Called(environment, succeeded)
}

func (m *MockMetrics) IncTransfer(environment, status string) {
	m.Called(environment, status)
}

func (m *MockMetrics) AddSynced(environment, kind string, created, updated int) {
	m.Called(environment, kind, created, updated)
}
