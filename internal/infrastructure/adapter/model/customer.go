package model

import (
	"time"
)

// CustomerToken represents the database model for gateway customers
type CustomerToken struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"not null;index"`
	UserEmail   string    `gorm:"size:255;not null;default:''"`
	Token       string    `gorm:"size:100;not null;uniqueIndex:idx_customer_env_token"`
	Environment string    `gorm:"size:32;not null;uniqueIndex:idx_customer_env_token"`
	Active      bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for CustomerToken
func (CustomerToken) TableName() string {
	return "customer_tokens"
}

// CardToken represents the database model for stored cards.
// The primary column is named is_primary since PRIMARY is reserved in SQL.
type CardToken struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	Token           string    `gorm:"size:100;not null;uniqueIndex:idx_card_env_token"`
	Environment     string    `gorm:"size:32;not null;uniqueIndex:idx_card_env_token"`
	Scheme          string    `gorm:"size:20;not null;default:''"`
	DisplayNumber   string    `gorm:"size:100;not null;default:''"`
	Name            string    `gorm:"size:100;not null;default:''"`
	ExpiryMonth     int       `gorm:"not null;default:0"`
	ExpiryYear      int       `gorm:"not null;default:0"`
	AddressLine1    string    `gorm:"size:255;not null;default:''"`
	AddressLine2    string    `gorm:"size:255;not null;default:''"`
	AddressCity     string    `gorm:"size:100;not null;default:''"`
	AddressState    string    `gorm:"size:100;not null;default:''"`
	AddressPostcode string    `gorm:"size:20;not null;default:''"`
	AddressCountry  string    `gorm:"size:100;not null;default:''"`
	IsPrimary       bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for CardToken
func (CardToken) TableName() string {
	return "card_tokens"
}

// CustomerCard links a customer to one of its cards
type CustomerCard struct {
	CustomerTokenID uint64 `gorm:"primaryKey;autoIncrement:false"`
	CardTokenID     uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName specifies the table name for CustomerCard
func (CustomerCard) TableName() string {
	return "customer_token_cards"
}
