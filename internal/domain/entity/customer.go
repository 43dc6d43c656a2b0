package entity

import "time"

// CustomerToken is a gateway customer with its stored cards
type CustomerToken struct {
	ID          uint64
	User        User
	Token       string
	Environment string
	Active      bool
	CreatedAt   time.Time
	Cards       []*CardToken
}

// HasCard reports whether card is among the customer's loaded cards
func (c *CustomerToken) HasCard(card *CardToken) bool {
	if card == nil {
		return false
	}
	for _, owned := range c.Cards {
		if owned.ID == card.ID && owned.Token == card.Token {
			return true
		}
	}
	return false
}

// FindCard returns the loaded card with the given gateway token
func (c *CustomerToken) FindCard(token string) *CardToken {
	for _, owned := range c.Cards {
		if owned.Token == token {
			return owned
		}
	}
	return nil
}

// PrimaryCard returns the loaded card flagged as primary, or nil
func (c *CustomerToken) PrimaryCard() *CardToken {
	for _, owned := range c.Cards {
		if owned.IsPrimary {
			return owned
		}
	}
	return nil
}

// CardToken is a local mirror of a card stored at the gateway
type CardToken struct {
	ID              uint64
	Token           string
	Environment     string
	Scheme          string
	DisplayNumber   string
	Name            string
	ExpiryMonth     int
	ExpiryYear      int
	AddressLine1    string
	AddressLine2    string
	AddressCity     string
	AddressState    string
	AddressPostcode string
	AddressCountry  string
	IsPrimary       bool
	CreatedAt       time.Time
}

// UpdateFrom copies the gateway-reported details of other onto c,
// keeping c's identity and creation time
func (c *CardToken) UpdateFrom(other *CardToken) {
	c.Scheme = other.Scheme
	c.DisplayNumber = other.DisplayNumber
	c.Name = other.Name
	c.ExpiryMonth = other.ExpiryMonth
	c.ExpiryYear = other.ExpiryYear
	c.AddressLine1 = other.AddressLine1
	c.AddressLine2 = other.AddressLine2
	c.AddressCity = other.AddressCity
	c.AddressState = other.AddressState
	c.AddressPostcode = other.AddressPostcode
	c.AddressCountry = other.AddressCountry
	c.IsPrimary = other.IsPrimary
}
