package billing

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
)

// SyncPlans fetches every plan of the environment and upserts it by token
func (s *Service) SyncPlans(ctx context.Context, environment string) (entity.SyncResult, error) {
	client, err := s.environments.Resolve(environment)
	if err != nil {
		return entity.SyncResult{}, err
	}

	items, err := fetchAll(ctx, client, "/plans")
	if err != nil {
		return entity.SyncResult{}, err
	}

	now := s.timeProvider.Now()
	var result entity.SyncResult
	err = persistence.WithinTransaction(ctx, s.uow, func(txCtx context.Context) error {
		repo := s.uow.GetPlanRepository(txCtx)
		for _, item := range items {
			incoming := planFromFields(item, client.Name())
			if incoming.Token == "" {
				continue
			}

			existing, err := repo.GetByToken(txCtx, incoming.Environment, incoming.Token)
			switch {
			case errors.Is(err, errs.ErrNotFound):
				incoming.CreatedAt = now
				incoming.UpdatedAt = now
				if err := repo.Create(txCtx, incoming); err != nil {
					return err
				}
				result.Created++
			case err != nil:
				return err
			case !existing.SameAs(incoming):
				incoming.ID = existing.ID
				incoming.CreatedAt = existing.CreatedAt
				incoming.UpdatedAt = now
				if err := repo.Update(txCtx, incoming); err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return entity.SyncResult{}, err
	}

	s.finish(client.Name(), "plans", len(items), result)
	return result, nil
}

// SyncSubscriptions fetches every subscription of the environment and upserts it by token
func (s *Service) SyncSubscriptions(ctx context.Context, environment string) (entity.SyncResult, error) {
	client, err := s.environments.Resolve(environment)
	if err != nil {
		return entity.SyncResult{}, err
	}

	items, err := fetchAll(ctx, client, "/subscriptions")
	if err != nil {
		return entity.SyncResult{}, err
	}

	now := s.timeProvider.Now()
	var result entity.SyncResult
	err = persistence.WithinTransaction(ctx, s.uow, func(txCtx context.Context) error {
		repo := s.uow.GetSubscriptionRepository(txCtx)
		for _, item := range items {
			incoming := subscriptionFromFields(item, client.Name())
			if incoming.Token == "" {
				continue
			}

			existing, err := repo.GetByToken(txCtx, incoming.Environment, incoming.Token)
			switch {
			case errors.Is(err, errs.ErrNotFound):
				incoming.CreatedAt = now
				incoming.UpdatedAt = now
				if err := repo.Create(txCtx, incoming); err != nil {
					return err
				}
				result.Created++
			case err != nil:
				return err
			case !existing.SameAs(incoming):
				incoming.ID = existing.ID
				incoming.CreatedAt = existing.CreatedAt
				incoming.UpdatedAt = now
				if err := repo.Update(txCtx, incoming); err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return entity.SyncResult{}, err
	}

	s.finish(client.Name(), "subscriptions", len(items), result)
	return result, nil
}

func (s *Service) finish(environment, kind string, fetched int, result entity.SyncResult) {
	s.metrics.AddSynced(environment, kind, result.Created, result.Updated)
	s.logger.Info("Sync finished", map[string]any{
		"environment": environment,
		"kind":        kind,
		"fetched":     fetched,
		"created":     result.Created,
		"updated":     result.Updated,
	})
}

func planFromFields(f gateway.Fields, environment string) *entity.Plan {
	currency := entity.NormalizeCurrency(f.String("currency"))
	return &entity.Plan{
		Token:             f.String("token"),
		Environment:       environment,
		Name:              f.String("name"),
		Amount:            entity.ToDecimal(f.Int64("amount"), currency),
		Currency:          currency,
		SetupAmount:       entity.ToDecimal(f.Int64("setup_amount"), currency),
		TrialAmount:       entity.ToDecimal(f.Int64("trial_amount"), currency),
		Interval:          f.Int("interval"),
		IntervalUnit:      f.String("interval_unit"),
		Intervals:         f.Int("intervals"),
		TrialInterval:     f.Int("trial_interval"),
		TrialIntervalUnit: f.String("trial_interval_unit"),
		GatewayCreatedAt:  f.Time("created_at"),
	}
}

func subscriptionFromFields(f gateway.Fields, environment string) *entity.Subscription {
	return &entity.Subscription{
		Token:                   f.String("token"),
		Environment:             environment,
		PlanToken:               f.String("plan_token"),
		CustomerToken:           f.String("customer_token"),
		State:                   f.String("state"),
		NextBillingDate:         f.Time("next_billing_date"),
		ActiveIntervalStartedAt: f.Time("active_interval_started_at"),
		CancelledAt:             f.Time("cancelled_at"),
	}
}
