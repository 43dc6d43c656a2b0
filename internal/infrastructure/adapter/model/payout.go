package model

import (
	"time"
)

// BankAccount represents the database model for recipient bank accounts
type BankAccount struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Token       string `gorm:"size:40;not null;uniqueIndex:idx_bank_account_env_token"`
	Environment string `gorm:"size:32;not null;uniqueIndex:idx_bank_account_env_token"`
	BankName    string `gorm:"size:100;not null;default:''"`
	Branch      string `gorm:"size:100;not null;default:''"`
	Name        string `gorm:"size:100;not null;default:''"`
	BSB         string `gorm:"column:bsb;size:20;not null;default:''"`
	Number      string `gorm:"size:20;not null;default:''"`
}

// TableName specifies the table name for BankAccount
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Recipient represents the database model for transfer recipients
type Recipient struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	Token         string    `gorm:"size:40;not null;uniqueIndex:idx_recipient_env_token"`
	Environment   string    `gorm:"size:32;not null;uniqueIndex:idx_recipient_env_token"`
	Email         string    `gorm:"size:100;not null;default:''"`
	Name          string    `gorm:"size:100;not null;default:''"`
	BankAccountID *uint64   `gorm:"index"`
	CreatedAt     time.Time `gorm:"not null"`

	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID;references:ID"`
}

// TableName specifies the table name for Recipient
func (Recipient) TableName() string {
	return "pin_recipients"
}

// Transfer represents the database model for outbound transfers.
// Token is empty for transfers the gateway rejected.
type Transfer struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	Token           string    `gorm:"size:100;not null;default:'';index"`
	Environment     string    `gorm:"size:32;not null;index"`
	Status          string    `gorm:"size:100;not null;default:''"`
	Currency        string    `gorm:"size:10;not null"`
	Description     string    `gorm:"size:100;not null;default:''"`
	Amount          int64     `gorm:"not null"`
	RecipientID     *uint64   `gorm:"index"`
	PinResponseText string    `gorm:"type:text;not null;default:''"`
	CreatedAt       time.Time `gorm:"not null"`

	Recipient *Recipient `gorm:"foreignKey:RecipientID;references:ID"`
}

// TableName specifies the table name for Transfer
func (Transfer) TableName() string {
	return "pin_transfers"
}
