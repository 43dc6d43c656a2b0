package persistence

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
)

// PlanRepository defines the storage operations for synced billing plans
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	Update(ctx context.Context, plan *entity.Plan) error
	// GetByToken returns ErrNotFound when the environment has no plan with this token
	GetByToken(ctx context.Context, environment, token string) (*entity.Plan, error)
	ListByEnvironment(ctx context.Context, environment string) ([]*entity.Plan, error)
}

// SubscriptionRepository defines the storage operations for synced subscriptions
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	// GetByToken returns ErrNotFound when the environment has no subscription with this token
	GetByToken(ctx context.Context, environment, token string) (*entity.Subscription, error)
	ListByCustomer(ctx context.Context, environment, customerToken string) ([]*entity.Subscription, error)
}
