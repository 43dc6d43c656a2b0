package billing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
)

// Balance reads the available and pending balance of the account in currency.
// The gateway must report exactly one amount per kind for that currency.
func (s *Service) Balance(ctx context.Context, environment, currency string) (*entity.Balance, error) {
	client, err := s.environments.Resolve(environment)
	if err != nil {
		return nil, err
	}
	currency = entity.NormalizeCurrency(currency)

	resp, err := client.Request(ctx, http.MethodGet, "/balance", nil, true)
	if err != nil {
		return nil, err
	}

	body := resp.JSON.Object("response")
	if !body.Has("available") || !body.Has("pending") {
		return nil, &errs.PinError{
			Op:          "GET /balance",
			Environment: client.Name(),
			Description: "response is missing available or pending balances: " + resp.Text(),
		}
	}

	available, err := pickAmount(body.List("available"), "available", client.Name(), currency)
	if err != nil {
		return nil, err
	}
	pending, err := pickAmount(body.List("pending"), "pending", client.Name(), currency)
	if err != nil {
		return nil, err
	}

	return &entity.Balance{
		Environment: client.Name(),
		Currency:    currency,
		Available:   entity.ToDecimal(available, currency),
		Pending:     entity.ToDecimal(pending, currency),
	}, nil
}

// pickAmount returns the single amount listed for currency
func pickAmount(entries []gateway.Fields, kind, environment, currency string) (int64, error) {
	var amounts []int64
	for _, e := range entries {
		if entity.NormalizeCurrency(e.String("currency")) == currency {
			amounts = append(amounts, e.Int64("amount"))
		}
	}
	if len(amounts) != 1 {
		return 0, &errs.PinError{
			Op:          "GET /balance",
			Environment: environment,
			Description: fmt.Sprintf("expected one %s balance in %s, found %d", kind, currency, len(amounts)),
		}
	}
	return amounts[0], nil
}
