package payout

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// Service creates transfer recipients and pays them
type Service struct {
	uow          persistence.UnitOfWork
	environments gateway.Environments
	events       coreport.EventPublisher
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.PayoutUseCase = (*Service)(nil)

// NewService creates a new payout service
func NewService(
	uow persistence.UnitOfWork,
	environments gateway.Environments,
	events coreport.EventPublisher,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		environments: environments,
		events:       events,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "payout"}),
	}
}

// CreateRecipientWithBankAccount registers a recipient and its bank account.
// Nothing is stored unless the gateway accepts the recipient.
func (s *Service) CreateRecipientWithBankAccount(ctx context.Context, req usecase.RecipientRequest) (*entity.Recipient, error) {
	client, err := s.environments.Resolve(req.Environment)
	if err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("email", req.Email)
	payload.Set("name", req.Name)
	payload.Set("bank_account[name]", req.AccountName)
	payload.Set("bank_account[bsb]", req.BSB)
	payload.Set("bank_account[number]", req.Number)

	resp, err := client.Request(ctx, http.MethodPost, "/recipients", payload, true)
	if err != nil {
		return nil, err
	}

	body := resp.JSON.Object("response")
	if body.String("token") == "" {
		return nil, &errs.PinError{Op: "POST /recipients", Environment: client.Name(), Description: "response carries no recipient token"}
	}

	account := body.Object("bank_account")
	recipient := &entity.Recipient{
		Token:       body.String("token"),
		Email:       body.String("email"),
		Name:        body.String("name"),
		CreatedAt:   s.timeProvider.Now(),
		Environment: client.Name(),
		BankAccount: &entity.BankAccount{
			Token:       account.String("token"),
			BankName:    account.String("bank_name"),
			Branch:      account.String("branch"),
			Name:        account.String("name"),
			BSB:         account.String("bsb"),
			Number:      account.String("number"),
			Environment: client.Name(),
		},
	}

	err = persistence.WithinTransaction(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.uow.GetBankAccountRepository(txCtx).Create(txCtx, recipient.BankAccount); err != nil {
			return err
		}
		return s.uow.GetRecipientRepository(txCtx).Create(txCtx, recipient)
	})
	if err != nil {
		s.logger.Error("Failed to store recipient", map[string]any{
			"environment": client.Name(),
			"token":       recipient.Token,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Recipient created", map[string]any{
		"recipient_id": recipient.ID,
		"environment":  recipient.Environment,
	})
	s.publish(ctx, coreport.Event{
		Type:        coreport.EventRecipientCreated,
		Environment: recipient.Environment,
		Token:       recipient.Token,
		RecordID:    recipient.ID,
		OccurredAt:  s.timeProvider.Now(),
	})
	return recipient, nil
}

// SendTransfer pays amount to the recipient. The attempt is always stored;
// when the gateway rejects it or replies unreadably the stored transfer is
// returned with status failed together with a PinError.
func (s *Service) SendTransfer(ctx context.Context, amount decimal.Decimal, description string, recipient *entity.Recipient, currency string) (*entity.Transfer, error) {
	if recipient == nil || recipient.Token == "" {
		return nil, errs.NewPinError("", "", "transfer needs a recipient with a token")
	}
	currency = entity.NormalizeCurrency(currency)
	minor, err := entity.ToMinorUnits(amount, currency)
	if err != nil {
		return nil, err
	}
	client, err := s.environments.Resolve(recipient.Environment)
	if err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("amount", strconv.FormatInt(minor, 10))
	payload.Set("currency", currency)
	payload.Set("description", description)
	payload.Set("recipient", recipient.Token)

	resp, callErr := client.Request(ctx, http.MethodPost, "/transfers", payload, false)

	transfer := &entity.Transfer{
		Amount:      minor,
		Currency:    currency,
		Description: description,
		Recipient:   recipient,
		Environment: client.Name(),
		CreatedAt:   s.timeProvider.Now(),
	}
	gatewayErr := readTransfer(resp, callErr, transfer)

	// the attempt must be stored even when the caller has gone away
	storeCtx := context.WithoutCancel(ctx)
	if err := s.uow.GetTransferRepository(storeCtx).Create(storeCtx, transfer); err != nil {
		s.logger.Error("Failed to store transfer", map[string]any{
			"environment":  transfer.Environment,
			"recipient_id": recipient.ID,
			"token":        transfer.Token,
			"status":       transfer.Status,
			"error":        err.Error(),
		})
		return nil, err
	}

	s.metrics.IncTransfer(transfer.Environment, transfer.Status)

	eventType := coreport.EventTransferCreated
	if transfer.Failed() {
		eventType = coreport.EventTransferFailed
		s.logger.Error("Transfer failed", map[string]any{
			"transfer_id": transfer.ID,
			"error":       gatewayErr.Error(),
		})
	} else {
		s.logger.Info("Transfer sent", map[string]any{
			"transfer_id": transfer.ID,
			"token":       transfer.Token,
			"status":      transfer.Status,
			"amount":      entity.FormatValue(amount, currency),
		})
	}
	s.publish(storeCtx, coreport.Event{
		Type:        eventType,
		Environment: transfer.Environment,
		Token:       transfer.Token,
		RecordID:    transfer.ID,
		OccurredAt:  s.timeProvider.Now(),
		Data: map[string]any{
			"amount":    transfer.Value().String(),
			"currency":  transfer.Currency,
			"recipient": recipient.Token,
			"status":    transfer.Status,
		},
	})

	return transfer, gatewayErr
}

// readTransfer fills transfer from the gateway reply and returns the error
// that made it fail, if any
func readTransfer(resp *gateway.Response, callErr error, transfer *entity.Transfer) error {
	if resp != nil {
		transfer.PinResponseText = resp.Text()
	}
	if callErr != nil {
		transfer.Status = entity.TransferStatusFailed
		if transfer.PinResponseText == "" {
			transfer.PinResponseText = callErr.Error()
		}
		return callErr
	}

	if resp.JSON == nil {
		transfer.Status = entity.TransferStatusFailed
		return &errs.PinError{Op: "POST /transfers", Environment: transfer.Environment, Description: "unreadable response"}
	}
	if resp.JSON.Has("error") {
		transfer.Status = entity.TransferStatusFailed
		return &errs.PinError{
			Op:          "POST /transfers",
			Environment: transfer.Environment,
			Code:        resp.JSON.String("error"),
			Description: resp.JSON.String("error_description"),
		}
	}

	body := resp.JSON.Object("response")
	transfer.Token = body.String("token")
	transfer.Status = body.String("status")
	if transfer.Status == "" {
		transfer.Status = entity.TransferStatusPending
	}
	if transfer.Token == "" {
		transfer.Status = entity.TransferStatusFailed
		return &errs.PinError{Op: "POST /transfers", Environment: transfer.Environment, Description: "response carries no transfer token"}
	}
	return nil
}

// Transfers lists transfers sent to the recipient, newest first
func (s *Service) Transfers(ctx context.Context, recipient *entity.Recipient) ([]*entity.Transfer, error) {
	return s.uow.GetTransferRepository(ctx).ListByRecipient(ctx, recipient.ID)
}

func (s *Service) publish(ctx context.Context, event coreport.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish payout event", map[string]any{
			"type":  event.Type,
			"token": event.Token,
			"error": err.Error(),
		})
	}
}
