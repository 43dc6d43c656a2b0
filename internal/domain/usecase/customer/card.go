package customer

import (
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
)

// cardFromFields reads a gateway card object, returning nil when it has no token
func cardFromFields(f gateway.Fields, environment string, now time.Time) *entity.CardToken {
	token := f.String("token")
	if token == "" {
		return nil
	}
	return &entity.CardToken{
		Token:           token,
		Environment:     environment,
		Scheme:          f.String("scheme"),
		DisplayNumber:   f.String("display_number"),
		Name:            f.String("name"),
		ExpiryMonth:     f.Int("expiry_month"),
		ExpiryYear:      f.Int("expiry_year"),
		AddressLine1:    f.String("address_line1"),
		AddressLine2:    f.String("address_line2"),
		AddressCity:     f.String("address_city"),
		AddressState:    f.String("address_state"),
		AddressPostcode: f.String("address_postcode"),
		AddressCountry:  f.String("address_country"),
		IsPrimary:       f.Bool("primary"),
		CreatedAt:       now,
	}
}
