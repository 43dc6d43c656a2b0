package database

import (
	"context"
	"fmt"
	"strings"

	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Begin starts a new database transaction and stores it in the returned context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return ctx, fmt.Errorf("transaction already in progress")
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// sqlite transactions are already serializable
	if tx.Dialector.Name() == DriverPostgres {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL SERIALIZABLE").Error; err != nil {
			tx.Rollback()
			u.logger.Error("Failed to set transaction isolation level", map[string]any{"error": err.Error()})
			return ctx, fmt.Errorf("failed to set transaction isolation level: %w", err)
		}
	}

	u.logger.Debug("Began database transaction", nil)
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.logger.Debug("Committed database transaction", nil)
	return nil
}

// Rollback rolls back the current transaction. Rolling back a finished transaction is not an error.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	err := tx.Rollback().Error
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.logger.Debug("Rolled back database transaction", nil)
	return nil
}

// GetTransactionRepository returns a transaction repository bound to the context
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetCustomerRepository returns a customer repository bound to the context
func (u *UnitOfWork) GetCustomerRepository(ctx context.Context) persistence.CustomerRepository {
	return repository.NewCustomerRepository(u.getDbFromContext(ctx), u.logger)
}

// GetCardRepository returns a card repository bound to the context
func (u *UnitOfWork) GetCardRepository(ctx context.Context) persistence.CardRepository {
	return repository.NewCardRepository(u.getDbFromContext(ctx), u.logger)
}

// GetBankAccountRepository returns a bank account repository bound to the context
func (u *UnitOfWork) GetBankAccountRepository(ctx context.Context) persistence.BankAccountRepository {
	return repository.NewBankAccountRepository(u.getDbFromContext(ctx), u.logger)
}

// GetRecipientRepository returns a recipient repository bound to the context
func (u *UnitOfWork) GetRecipientRepository(ctx context.Context) persistence.RecipientRepository {
	return repository.NewRecipientRepository(u.getDbFromContext(ctx), u.logger)
}

// GetTransferRepository returns a transfer repository bound to the context
func (u *UnitOfWork) GetTransferRepository(ctx context.Context) persistence.TransferRepository {
	return repository.NewTransferRepository(u.getDbFromContext(ctx), u.logger)
}

// GetPlanRepository returns a plan repository bound to the context
func (u *UnitOfWork) GetPlanRepository(ctx context.Context) persistence.PlanRepository {
	return repository.NewPlanRepository(u.getDbFromContext(ctx), u.logger)
}

// GetSubscriptionRepository returns a subscription repository bound to the context
func (u *UnitOfWork) GetSubscriptionRepository(ctx context.Context) persistence.SubscriptionRepository {
	return repository.NewSubscriptionRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext returns the transaction in ctx, or the root handle
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
