package persistence

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
)

// CustomerRepository defines the storage operations for customer tokens
type CustomerRepository interface {
	// Create saves a new customer token and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicate: If the environment already has a customer with this token
	Create(ctx context.Context, customer *entity.CustomerToken) error

	// Update saves the customer's own fields; its cards are not touched
	Update(ctx context.Context, customer *entity.CustomerToken) error

	// GetByID retrieves a customer token with its cards loaded
	//
	// Possible errors:
	// - ErrCustomerNotFound: If no customer has the given ID
	GetByID(ctx context.Context, id uint64) (*entity.CustomerToken, error)

	// GetByToken retrieves a customer token by environment and gateway token, with cards loaded
	//
	// Possible errors:
	// - ErrCustomerNotFound: If no customer matches
	GetByToken(ctx context.Context, environment, token string) (*entity.CustomerToken, error)

	// ExistsByToken checks whether the environment has a customer with this token
	ExistsByToken(ctx context.Context, environment, token string) (bool, error)

	// ListByUser returns the user's customer tokens with cards loaded
	ListByUser(ctx context.Context, userID uint64) ([]*entity.CustomerToken, error)
}

// CardRepository defines the storage operations for card tokens and their customer links
type CardRepository interface {
	// Create saves a new card token and assigns its ID
	Create(ctx context.Context, card *entity.CardToken) error

	// Update saves every field of an existing card token
	Update(ctx context.Context, card *entity.CardToken) error

	// Delete removes a card token and any customer links to it
	Delete(ctx context.Context, cardID uint64) error

	// GetByToken retrieves a card token by environment and gateway token
	//
	// Possible errors:
	// - ErrCardNotFound: If no card matches
	GetByToken(ctx context.Context, environment, token string) (*entity.CardToken, error)

	// ListByCustomer returns the cards linked to a customer, oldest first
	ListByCustomer(ctx context.Context, customerID uint64) ([]*entity.CardToken, error)

	// Attach links a card to a customer; linking twice is a no-op
	Attach(ctx context.Context, customerID, cardID uint64) error

	// Detach removes the link between a card and a customer
	Detach(ctx context.Context, customerID, cardID uint64) error

	// IsAttached checks whether a card is linked to a customer
	IsAttached(ctx context.Context, customerID, cardID uint64) (bool, error)

	// CustomerIDs returns the customers a card is linked to
	CustomerIDs(ctx context.Context, cardID uint64) ([]uint64, error)

	// ClearPrimary unsets the primary flag on every card of the customer except keepCardID.
	// It returns the number of cards changed.
	ClearPrimary(ctx context.Context, customerID, keepCardID uint64) (int64, error)
}
