package charge

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
)

// Submit sends the transaction to the gateway at most once and returns the
// message recorded on it. It returns nil when the transaction was already
// processed, here or by a concurrent caller.
//
// A gateway decline is not an error: the transaction is stored unsucceeded
// and the decline message is returned. Transport failures are recorded the
// same way and also returned as a PinError.
func (s *Service) Submit(ctx context.Context, transaction *entity.Transaction) (*string, error) {
	if transaction.Processed {
		return nil, nil
	}

	if err := s.validate(transaction); err != nil {
		return nil, err
	}
	client, err := s.environments.Resolve(transaction.Environment)
	if err != nil {
		return nil, err
	}
	amount, err := entity.ToMinorUnits(transaction.Amount, transaction.Currency)
	if err != nil {
		return nil, err
	}

	claimed, err := s.claim(ctx, transaction, client.Name())
	if err != nil || !claimed {
		return nil, err
	}

	// processed is committed; the call and the final write must not be abandoned halfway
	ctx = context.WithoutCancel(ctx)

	log := s.logger.With(map[string]any{
		"transaction_id": transaction.ID,
		"environment":    transaction.Environment,
	})
	log.Info("Submitting charge", map[string]any{
		"amount": entity.FormatValue(transaction.Amount, transaction.Currency),
	})

	resp, callErr := client.Request(ctx, http.MethodPost, "/charges", chargePayload(transaction, amount), false)

	outcome := parseResult(resp, transaction.Currency)
	outcome.apply(transaction)
	if resp != nil {
		transaction.PinResponseText = resp.Text()
	} else if callErr != nil {
		transaction.PinResponseText = callErr.Error()
	}

	if err := s.uow.GetTransactionRepository(ctx).Update(ctx, transaction); err != nil {
		log.Error("Failed to store charge outcome", map[string]any{
			"error":     err.Error(),
			"succeeded": transaction.Succeeded,
			"token":     transaction.TransactionToken,
		})
		return nil, errors.Join(callErr, err)
	}

	s.metrics.IncCharge(transaction.Environment, transaction.Succeeded)
	s.publish(ctx, transaction)

	if callErr != nil {
		log.Error("Charge request failed", map[string]any{"error": callErr.Error()})
	} else {
		log.Info("Charge submitted", map[string]any{
			"succeeded": transaction.Succeeded,
			"token":     transaction.TransactionToken,
			"message":   transaction.PinResponse,
		})
	}

	message := transaction.PinResponse
	return &message, callErr
}

// claim marks the transaction processed before the gateway is called.
// New records are inserted processed; stored ones are claimed with a
// conditional update so only one caller proceeds.
func (s *Service) claim(ctx context.Context, transaction *entity.Transaction, environment string) (bool, error) {
	repo := s.uow.GetTransactionRepository(ctx)

	if transaction.ID == 0 {
		transaction.ApplyDefaults(environment, s.timeProvider)
		transaction.Processed = true
		if err := repo.Create(ctx, transaction); err != nil {
			transaction.Processed = false
			return false, err
		}
		return true, nil
	}

	claimed, err := repo.MarkProcessed(ctx, transaction.ID)
	if err != nil {
		return false, err
	}
	transaction.Processed = true
	if !claimed {
		s.logger.Info("Transaction already claimed", map[string]any{"transaction_id": transaction.ID})
		return false, nil
	}
	transaction.ApplyDefaults(environment, s.timeProvider)
	return true, nil
}

func chargePayload(transaction *entity.Transaction, amount int64) url.Values {
	payload := url.Values{}
	payload.Set("email", transaction.Email)
	payload.Set("description", transaction.Description)
	payload.Set("amount", strconv.FormatInt(amount, 10))
	payload.Set("currency", transaction.Currency)
	payload.Set("ip_address", transaction.IPAddress)
	if transaction.CardToken != "" {
		payload.Set("card_token", transaction.CardToken)
	} else {
		payload.Set("customer_token", transaction.Customer.Token)
	}
	return payload
}

func (s *Service) publish(ctx context.Context, transaction *entity.Transaction) {
	eventType := coreport.EventChargeFailed
	if transaction.Succeeded {
		eventType = coreport.EventChargeSucceeded
	}

	event := coreport.Event{
		Type:        eventType,
		Environment: transaction.Environment,
		Token:       transaction.TransactionToken,
		RecordID:    transaction.ID,
		OccurredAt:  s.timeProvider.Now(),
		Data: map[string]any{
			"amount":   transaction.Amount.String(),
			"currency": transaction.Currency,
			"message":  transaction.PinResponse,
		},
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish charge event", map[string]any{
			"transaction_id": transaction.ID,
			"error":          err.Error(),
		})
	}
}
