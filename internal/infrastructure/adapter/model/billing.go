package model

import (
	"time"
)

// Plan represents the database model for synced billing plans
type Plan struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	Token             string `gorm:"size:100;not null;uniqueIndex:idx_plan_env_token"`
	Environment       string `gorm:"size:32;not null;uniqueIndex:idx_plan_env_token"`
	Name              string `gorm:"size:255;not null;default:''"`
	Amount            string `gorm:"size:32;not null"`
	Currency          string `gorm:"size:3;not null"`
	SetupAmount       string `gorm:"size:32;not null;default:'0'"`
	TrialAmount       string `gorm:"size:32;not null;default:'0'"`
	Interval          int    `gorm:"column:billing_interval;not null;default:0"`
	IntervalUnit      string `gorm:"size:10;not null;default:''"`
	Intervals         int    `gorm:"not null;default:0"`
	TrialInterval     int    `gorm:"not null;default:0"`
	TrialIntervalUnit string `gorm:"size:10;not null;default:''"`
	GatewayCreatedAt  *time.Time
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for Plan
func (Plan) TableName() string {
	return "pin_plans"
}

// Subscription represents the database model for synced subscriptions
type Subscription struct {
	ID                      uint64 `gorm:"primaryKey;autoIncrement"`
	Token                   string `gorm:"size:100;not null;uniqueIndex:idx_subscription_env_token"`
	Environment             string `gorm:"size:32;not null;uniqueIndex:idx_subscription_env_token"`
	PlanToken               string `gorm:"size:100;not null;index"`
	CustomerToken           string `gorm:"size:100;not null;index"`
	State                   string `gorm:"size:20;not null;default:''"`
	NextBillingDate         *time.Time
	ActiveIntervalStartedAt *time.Time
	CancelledAt             *time.Time
	CreatedAt               time.Time `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "pin_subscriptions"
}
