package model

import (
	"time"
)

// Transaction represents the database model for charge attempts.
// Amounts are stored as decimal strings so every driver round-trips them exactly.
type Transaction struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	CreatedAt        time.Time `gorm:"not null;index"`
	Environment      string    `gorm:"size:32;not null;index"`
	Amount           string    `gorm:"size:32;not null"`
	Currency         string    `gorm:"size:3;not null;default:AUD"`
	Fees             *string   `gorm:"size:32"`
	Description      string    `gorm:"size:255;not null;default:''"`
	Processed        bool      `gorm:"not null;default:false;index"`
	Succeeded        bool      `gorm:"not null;default:false"`
	CardToken        string    `gorm:"size:40;not null;default:''"`
	CustomerID       *uint64   `gorm:"index"`
	TransactionToken string    `gorm:"size:100;not null;default:'';index"`
	PinResponse      string    `gorm:"size:255;not null;default:''"`
	PinResponseText  string    `gorm:"type:text;not null;default:''"`
	CardAddress1     string    `gorm:"size:255;not null;default:''"`
	CardAddress2     string    `gorm:"size:255;not null;default:''"`
	CardCity         string    `gorm:"size:255;not null;default:''"`
	CardState        string    `gorm:"size:255;not null;default:''"`
	CardPostcode     string    `gorm:"size:255;not null;default:''"`
	CardCountry      string    `gorm:"size:255;not null;default:''"`
	CardNumber       string    `gorm:"size:255;not null;default:''"`
	CardType         string    `gorm:"size:255;not null;default:''"`
	IPAddress        string    `gorm:"size:45;not null;default:''"`
	Email            string    `gorm:"size:255;not null;default:''"`

	Customer *CustomerToken `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "pin_transactions"
}
