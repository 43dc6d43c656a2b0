package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer statuses reported by the gateway, plus the local failure marker
const (
	TransferStatusPending = "pending"
	TransferStatusPaid    = "paid"
	TransferStatusFailed  = "failed"
)

// BankAccount is the account a recipient is paid into
type BankAccount struct {
	ID          uint64
	Token       string
	BankName    string
	Branch      string
	Name        string
	BSB         string
	Number      string // masked by the gateway
	Environment string
}

// Recipient is a payee that transfers can be sent to
type Recipient struct {
	ID          uint64
	Token       string
	Email       string
	Name        string
	CreatedAt   time.Time
	BankAccount *BankAccount
	Environment string
}

// Transfer records an outbound payment to a recipient
type Transfer struct {
	ID              uint64
	Token           string
	Status          string
	Currency        string
	Description     string
	Amount          int64 // minor units as sent to the gateway
	Recipient       *Recipient
	Environment     string
	PinResponseText string
	CreatedAt       time.Time
}

// Value returns the transfer amount in major units of its currency
func (t *Transfer) Value() decimal.Decimal {
	return ToDecimal(t.Amount, t.Currency)
}

// Failed reports whether the gateway rejected the transfer
func (t *Transfer) Failed() bool {
	return t.Status == TransferStatusFailed
}

// RecipientID returns the ID of the recipient, or nil
func (t *Transfer) RecipientID() *uint64 {
	if t.Recipient == nil {
		return nil
	}
	id := t.Recipient.ID
	return &id
}
