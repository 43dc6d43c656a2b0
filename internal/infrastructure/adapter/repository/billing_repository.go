package repository

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// PlanRepository implements PlanRepository interface using GORM
type PlanRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPlanRepository creates a new PlanRepository instance
func NewPlanRepository(db *gorm.DB, logger coreport.Logger) *PlanRepository {
	return &PlanRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func planEntityToModel(p *entity.Plan) model.Plan {
	return model.Plan{
		ID:                p.ID,
		Token:             p.Token,
		Environment:       p.Environment,
		Name:              p.Name,
		Amount:            decimalString(p.Amount),
		Currency:          p.Currency,
		SetupAmount:       decimalString(p.SetupAmount),
		TrialAmount:       decimalString(p.TrialAmount),
		Interval:          p.Interval,
		IntervalUnit:      p.IntervalUnit,
		Intervals:         p.Intervals,
		TrialInterval:     p.TrialInterval,
		TrialIntervalUnit: p.TrialIntervalUnit,
		GatewayCreatedAt:  p.GatewayCreatedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func planModelToEntity(m *model.Plan) *entity.Plan {
	return &entity.Plan{
		ID:                m.ID,
		Token:             m.Token,
		Environment:       m.Environment,
		Name:              m.Name,
		Amount:            parseDecimal(m.Amount),
		Currency:          m.Currency,
		SetupAmount:       parseDecimal(m.SetupAmount),
		TrialAmount:       parseDecimal(m.TrialAmount),
		Interval:          m.Interval,
		IntervalUnit:      m.IntervalUnit,
		Intervals:         m.Intervals,
		TrialInterval:     m.TrialInterval,
		TrialIntervalUnit: m.TrialIntervalUnit,
		GatewayCreatedAt:  m.GatewayCreatedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// Create saves a new plan and assigns its ID
func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	m := planEntityToModel(plan)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create plan", map[string]any{
			"environment": plan.Environment,
			"token":       plan.Token,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	plan.ID = m.ID
	plan.CreatedAt = m.CreatedAt
	plan.UpdatedAt = m.UpdatedAt
	return nil
}

// Update saves the gateway-owned fields of an existing plan
func (r *PlanRepository) Update(ctx context.Context, plan *entity.Plan) error {
	m := planEntityToModel(plan)
	result := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", plan.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&m)
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	plan.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByToken retrieves a plan by environment and gateway token
func (r *PlanRepository) GetByToken(ctx context.Context, environment, token string) (*entity.Plan, error) {
	var m model.Plan
	err := r.db.WithContext(ctx).First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	return planModelToEntity(&m), nil
}

// ListByEnvironment returns the environment's plans ordered by token
func (r *PlanRepository) ListByEnvironment(ctx context.Context, environment string) ([]*entity.Plan, error) {
	var models []model.Plan
	err := r.db.WithContext(ctx).Where("environment = ?", environment).Order("token").Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}

	plans := make([]*entity.Plan, 0, len(models))
	for i := range models {
		plans = append(plans, planModelToEntity(&models[i]))
	}
	return plans, nil
}

// SubscriptionRepository implements SubscriptionRepository interface using GORM
type SubscriptionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance
func NewSubscriptionRepository(db *gorm.DB, logger coreport.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func subscriptionEntityToModel(s *entity.Subscription) model.Subscription {
	return model.Subscription{
		ID:                      s.ID,
		Token:                   s.Token,
		Environment:             s.Environment,
		PlanToken:               s.PlanToken,
		CustomerToken:           s.CustomerToken,
		State:                   s.State,
		NextBillingDate:         s.NextBillingDate,
		ActiveIntervalStartedAt: s.ActiveIntervalStartedAt,
		CancelledAt:             s.CancelledAt,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

func subscriptionModelToEntity(m *model.Subscription) *entity.Subscription {
	return &entity.Subscription{
		ID:                      m.ID,
		Token:                   m.Token,
		Environment:             m.Environment,
		PlanToken:               m.PlanToken,
		CustomerToken:           m.CustomerToken,
		State:                   m.State,
		NextBillingDate:         m.NextBillingDate,
		ActiveIntervalStartedAt: m.ActiveIntervalStartedAt,
		CancelledAt:             m.CancelledAt,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// Create saves a new subscription and assigns its ID
func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := subscriptionEntityToModel(subscription)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	subscription.ID = m.ID
	subscription.CreatedAt = m.CreatedAt
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

// Update saves every field of an existing subscription
func (r *SubscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	m := subscriptionEntityToModel(subscription)
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ?", subscription.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&m)
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByToken retrieves a subscription by environment and gateway token
func (r *SubscriptionRepository) GetByToken(ctx context.Context, environment, token string) (*entity.Subscription, error) {
	var m model.Subscription
	err := r.db.WithContext(ctx).First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	return subscriptionModelToEntity(&m), nil
}

// ListByCustomer returns the customer's subscriptions in an environment
func (r *SubscriptionRepository) ListByCustomer(ctx context.Context, environment, customerToken string) ([]*entity.Subscription, error) {
	var models []model.Subscription
	err := r.db.WithContext(ctx).
		Where("environment = ? AND customer_token = ?", environment, customerToken).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}

	subscriptions := make([]*entity.Subscription, 0, len(models))
	for i := range models {
		subscriptions = append(subscriptions, subscriptionModelToEntity(&models[i]))
	}
	return subscriptions, nil
}
