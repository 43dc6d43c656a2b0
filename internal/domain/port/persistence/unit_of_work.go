package persistence

import (
	"context"
)

// UnitOfWork coordinates repositories so multi-row updates commit or roll back together.
// Repositories obtained with a transactional context take part in that transaction;
// with any other context they run on their own.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	GetTransactionRepository(ctx context.Context) TransactionRepository
	GetCustomerRepository(ctx context.Context) CustomerRepository
	GetCardRepository(ctx context.Context) CardRepository
	GetBankAccountRepository(ctx context.Context) BankAccountRepository
	GetRecipientRepository(ctx context.Context) RecipientRepository
	GetTransferRepository(ctx context.Context) TransferRepository
	GetPlanRepository(ctx context.Context) PlanRepository
	GetSubscriptionRepository(ctx context.Context) SubscriptionRepository
}

// WithinTransaction runs fn inside a transaction, committing when it returns nil
// and rolling back on error or panic
func WithinTransaction(ctx context.Context, uow UnitOfWork, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err = fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
