package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// CardSnapshot is the cardholder detail the gateway returns with a successful charge
type CardSnapshot struct {
	Address1 string
	Address2 string
	City     string
	State    string
	Postcode string
	Country  string
	Number   string // masked display number
	Type     string // card scheme
}

// Transaction is a single charge attempt against the gateway.
// It is submitted at most once; Processed is set before the gateway is called.
type Transaction struct {
	ID               uint64
	CreatedAt        time.Time
	Environment      string
	Amount           decimal.Decimal // major units
	Currency         string
	Fees             decimal.NullDecimal
	Description      string
	Processed        bool
	Succeeded        bool
	CardToken        string
	Customer         *CustomerToken
	TransactionToken string
	PinResponse      string // message shown to the operator
	PinResponseText  string // raw response body
	Card             CardSnapshot
	IPAddress        string
	Email            string
}

// NewTransaction creates an unprocessed charge paid with a one-off card token
func NewTransaction(email, description string, amount decimal.Decimal, currency, cardToken, ipAddress string, timeProvider coreport.TimeProvider) *Transaction {
	return &Transaction{
		CreatedAt:   timeProvider.Now(),
		Email:       email,
		Description: description,
		Amount:      amount,
		Currency:    NormalizeCurrency(currency),
		CardToken:   cardToken,
		IPAddress:   ipAddress,
	}
}

// CustomerID returns the ID of the paying customer, or nil when paid with a card token
func (t *Transaction) CustomerID() *uint64 {
	if t.Customer == nil {
		return nil
	}
	id := t.Customer.ID
	return &id
}

// ValidateIdentity enforces that exactly one of card token or customer is set
func (t *Transaction) ValidateIdentity() error {
	hasCard := t.CardToken != ""
	hasCustomer := t.Customer != nil
	switch {
	case hasCard && hasCustomer:
		return errs.NewPinError("", "", "transaction cannot have both a card token and a customer token")
	case !hasCard && !hasCustomer:
		return errs.NewPinError("", "", "transaction must have a card token or a customer token")
	}
	return nil
}

// ApplyDefaults fills the fields that are defaulted when the record is first saved
func (t *Transaction) ApplyDefaults(defaultEnvironment string, timeProvider coreport.TimeProvider) {
	if t.Environment == "" {
		t.Environment = defaultEnvironment
	}
	t.Currency = NormalizeCurrency(t.Currency)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = timeProvider.Now()
	}
}

// RecordSuccess stores the outcome of an accepted charge
func (t *Transaction) RecordSuccess(token string, fees decimal.NullDecimal, message string, card CardSnapshot) {
	t.Succeeded = true
	t.TransactionToken = token
	t.Fees = fees
	t.PinResponse = message
	t.Card = card
}

// RecordFailure stores the outcome of a declined or unreadable charge.
// token is the gateway's charge_token and may be empty.
func (t *Transaction) RecordFailure(message, token string) {
	t.Succeeded = false
	t.PinResponse = message
	if token != "" {
		t.TransactionToken = token
	}
}
