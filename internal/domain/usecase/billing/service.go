package billing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
)

// maxPages stops a sync whose pagination never ends
var maxPages = 1000

// Service mirrors gateway billing data locally and reads account balances
type Service struct {
	uow          persistence.UnitOfWork
	environments gateway.Environments
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.BillingUseCase = (*Service)(nil)

// NewService creates a new billing service
func NewService(
	uow persistence.UnitOfWork,
	environments gateway.Environments,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		environments: environments,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "billing"}),
	}
}

// fetchAll walks a paginated listing and returns every item.
// The listing ends when pagination.next is null or absent; a listing that is
// still going after maxPages is a PinError, never a partial result.
func fetchAll(ctx context.Context, client gateway.Client, path string) ([]gateway.Fields, error) {
	var items []gateway.Fields

	page := 1
	for range maxPages {
		payload := url.Values{}
		payload.Set("page", strconv.Itoa(page))

		resp, err := client.Request(ctx, http.MethodGet, path, payload, true)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.JSON.List("response")...)

		next, ok := resp.JSON.Object("pagination").OptionalInt64("next")
		if !ok || int(next) <= page {
			return items, nil
		}
		page = int(next)
	}
	return nil, &errs.PinError{
		Op:          "GET " + path,
		Environment: client.Name(),
		Description: fmt.Sprintf("listing did not end after %d pages", maxPages),
	}
}
