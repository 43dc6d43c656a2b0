package usecase

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockBillingUseCase is a testify mock of usecase.BillingUseCase
type MockBillingUseCase struct {
	mock.Mock
}

// NewMockBillingUseCase creates a mock and registers its expectation check with t
func NewMockBillingUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBillingUseCase {
	m := &MockBillingUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBillingUseCase) SyncPlans(ctx context.Context, environment string) (entity.SyncResult, error) {
	args := m.Called(ctx, environment)
	return args.Get(0).(entity.SyncResult), args.Error(1)
}

func (m *MockBillingUseCase) SyncSubscriptions(ctx context.Context, environment string) (entity.SyncResult, error) {
	args := m.Called(ctx, environment)
	return args.Get(0).(entity.SyncResult), args.Error(1)
}

func (m *MockBillingUseCase) Balance(ctx context.Context, environment, currency string) (*entity.Balance, error) {
	args := m.Called(ctx, environment, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Balance), args.Error(1)
}
