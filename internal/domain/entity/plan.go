package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a gateway billing plan mirrored locally
type Plan struct {
	ID                uint64
	Token             string
	Environment       string
	Name              string
	Amount            decimal.Decimal // major units
	Currency          string
	SetupAmount       decimal.Decimal
	TrialAmount       decimal.Decimal
	Interval          int
	IntervalUnit      string
	Intervals         int
	TrialInterval     int
	TrialIntervalUnit string
	GatewayCreatedAt  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SameAs reports whether the gateway-owned fields of p and other match
func (p *Plan) SameAs(other *Plan) bool {
	return p.Name == other.Name &&
		p.Amount.Equal(other.Amount) &&
		p.Currency == other.Currency &&
		p.SetupAmount.Equal(other.SetupAmount) &&
		p.TrialAmount.Equal(other.TrialAmount) &&
		p.Interval == other.Interval &&
		p.IntervalUnit == other.IntervalUnit &&
		p.Intervals == other.Intervals &&
		p.TrialInterval == other.TrialInterval &&
		p.TrialIntervalUnit == other.TrialIntervalUnit
}

// Subscription is a customer's enrolment in a plan, mirrored from the gateway
type Subscription struct {
	ID                      uint64
	Token                   string
	Environment             string
	PlanToken               string
	CustomerToken           string
	State                   string
	NextBillingDate         *time.Time
	ActiveIntervalStartedAt *time.Time
	CancelledAt             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// SameAs reports whether the gateway-owned fields of s and other match
func (s *Subscription) SameAs(other *Subscription) bool {
	return s.PlanToken == other.PlanToken &&
		s.CustomerToken == other.CustomerToken &&
		s.State == other.State &&
		sameTime(s.NextBillingDate, other.NextBillingDate) &&
		sameTime(s.ActiveIntervalStartedAt, other.ActiveIntervalStartedAt) &&
		sameTime(s.CancelledAt, other.CancelledAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// SyncResult counts the records created and updated by a sync
type SyncResult struct {
	Created int
	Updated int
}

// Balance is the account balance for one currency
type Balance struct {
	Environment string
	Currency    string
	Available   decimal.Decimal
	Pending     decimal.Decimal
}
