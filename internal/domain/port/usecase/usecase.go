package usecase

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ChargeUseCase creates and submits charge records
type ChargeUseCase interface {
	// Create validates and stores a new, unprocessed transaction
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Submit sends the transaction to the gateway at most once.
	// It returns nil when the transaction was already processed.
	Submit(ctx context.Context, transaction *entity.Transaction) (*string, error)

	// Get loads a stored transaction
	Get(ctx context.Context, id uint64) (*entity.Transaction, error)

	// ListForCustomer returns the customer's transactions, newest first
	ListForCustomer(ctx context.Context, customerID uint64) ([]*entity.Transaction, error)
}

// CustomerUseCase manages gateway customers and their stored cards
type CustomerUseCase interface {
	CreateFromCardToken(ctx context.Context, cardToken string, user entity.User, environment string) (*entity.CustomerToken, error)
	AddCard(ctx context.Context, customer *entity.CustomerToken, cardToken string) (*entity.CardToken, error)
	SetPrimaryCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error)
	DeleteCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error)
	Cards(ctx context.Context, customer *entity.CustomerToken) ([]*entity.CardToken, error)
}

// RecipientRequest holds the details of a new transfer recipient
type RecipientRequest struct {
	Email       string
	AccountName string
	BSB         string
	Number      string
	Name        string
	Environment string
}

// PayoutUseCase creates recipients and sends transfers to them
type PayoutUseCase interface {
	CreateRecipientWithBankAccount(ctx context.Context, req RecipientRequest) (*entity.Recipient, error)

	// SendTransfer always records the attempt; on gateway failure it returns
	// the recorded transfer together with the error
	SendTransfer(ctx context.Context, amount decimal.Decimal, description string, recipient *entity.Recipient, currency string) (*entity.Transfer, error)
}

// BillingUseCase reconciles billing data with the gateway
type BillingUseCase interface {
	SyncPlans(ctx context.Context, environment string) (entity.SyncResult, error)
	SyncSubscriptions(ctx context.Context, environment string) (entity.SyncResult, error)
	Balance(ctx context.Context, environment, currency string) (*entity.Balance, error)
}
