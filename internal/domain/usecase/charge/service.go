package charge

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
)

// Service stores charge records and submits them to the gateway
type Service struct {
	uow          persistence.UnitOfWork
	environments gateway.Environments
	events       coreport.EventPublisher
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.ChargeUseCase = (*Service)(nil)

// NewService creates a new charge service
func NewService(
	uow persistence.UnitOfWork,
	environments gateway.Environments,
	events coreport.EventPublisher,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		environments: environments,
		events:       events,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "charge"}),
	}
}

// Create validates and stores a new, unprocessed transaction
func (s *Service) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.ID != 0 {
		return fmt.Errorf("transaction %d is already stored", transaction.ID)
	}
	if err := s.validate(transaction); err != nil {
		return err
	}

	transaction.ApplyDefaults(s.environments.DefaultName(), s.timeProvider)
	if !s.environments.Has(transaction.Environment) {
		return errs.NewPinError("", "", fmt.Sprintf("environment %q is not configured", transaction.Environment))
	}

	transaction.Processed = false
	if err := s.uow.GetTransactionRepository(ctx).Create(ctx, transaction); err != nil {
		return err
	}

	s.logger.Info("Transaction created", map[string]any{
		"transaction_id": transaction.ID,
		"environment":    transaction.Environment,
		"amount":         entity.FormatValue(transaction.Amount, transaction.Currency),
	})
	return nil
}

// Get loads a stored transaction
func (s *Service) Get(ctx context.Context, id uint64) (*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).GetByID(ctx, id)
}

// ListForCustomer returns the customer's transactions, newest first
func (s *Service) ListForCustomer(ctx context.Context, customerID uint64) ([]*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).ListByCustomer(ctx, customerID)
}

// validate checks everything that must hold before a record is stored or sent
func (s *Service) validate(transaction *entity.Transaction) error {
	if err := transaction.ValidateIdentity(); err != nil {
		return err
	}
	if _, err := entity.ToMinorUnits(transaction.Amount, transaction.Currency); err != nil {
		return err
	}
	return nil
}
