package persistence

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
)

// BankAccountRepository defines the storage operations for recipient bank accounts
type BankAccountRepository interface {
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByToken(ctx context.Context, environment, token string) (*entity.BankAccount, error)
}

// RecipientRepository defines the storage operations for transfer recipients
type RecipientRepository interface {
	// Create saves a new recipient; its bank account must already be stored
	Create(ctx context.Context, recipient *entity.Recipient) error

	// GetByToken retrieves a recipient with its bank account loaded
	//
	// Possible errors:
	// - ErrRecipientNotFound: If no recipient matches
	GetByToken(ctx context.Context, environment, token string) (*entity.Recipient, error)

	// ExistsByToken checks whether the environment has a recipient with this token
	ExistsByToken(ctx context.Context, environment, token string) (bool, error)
}

// TransferRepository defines the storage operations for outbound transfers
type TransferRepository interface {
	// Create saves a transfer record. Failed transfers have no token and are stored all the same.
	Create(ctx context.Context, transfer *entity.Transfer) error

	// GetByToken retrieves a transfer by its gateway token
	//
	// Possible errors:
	// - ErrNotFound: If no transfer matches
	GetByToken(ctx context.Context, environment, token string) (*entity.Transfer, error)

	// ListByRecipient returns transfers to a recipient, newest first
	ListByRecipient(ctx context.Context, recipientID uint64) ([]*entity.Transfer, error)
}
