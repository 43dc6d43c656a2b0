package persistence

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
)

// TransactionRepository defines the storage operations for charge records
type TransactionRepository interface {
	// Create saves a new transaction and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicate: If a transaction with the same gateway token already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update saves every field of an existing transaction
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the given ID
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, transaction *entity.Transaction) error

	// MarkProcessed atomically flips processed from false to true.
	// It returns false when another caller already claimed the record.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	MarkProcessed(ctx context.Context, id uint64) (bool, error)

	// GetByID retrieves a transaction with its customer loaded
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the given ID
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// GetByToken retrieves a transaction by the gateway charge token
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction carries the token
	GetByToken(ctx context.Context, token string) (*entity.Transaction, error)

	// ExistsByToken checks whether a transaction carries the gateway charge token
	ExistsByToken(ctx context.Context, token string) (bool, error)

	// ListByCustomer returns the customer's transactions, newest first
	ListByCustomer(ctx context.Context, customerID uint64) ([]*entity.Transaction, error)
}
