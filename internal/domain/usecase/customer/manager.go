package customer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
)

// Manager keeps gateway customers and their cards in step with local records
type Manager struct {
	uow          persistence.UnitOfWork
	environments gateway.Environments
	events       coreport.EventPublisher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	queue        *customerQueue
}

var _ usecase.CustomerUseCase = (*Manager)(nil)

// NewManager creates a new customer manager
func NewManager(
	uow persistence.UnitOfWork,
	environments gateway.Environments,
	events coreport.EventPublisher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Manager {
	logger = logger.With(map[string]any{"component": "customer"})
	return &Manager{
		uow:          uow,
		environments: environments,
		events:       events,
		timeProvider: timeProvider,
		logger:       logger,
		queue:        newCustomerQueue(logger),
	}
}

// Shutdown waits for queued card operations and rejects new ones
func (m *Manager) Shutdown() {
	m.queue.Shutdown()
}

// CreateFromCardToken registers a gateway customer for user, paying with cardToken
func (m *Manager) CreateFromCardToken(ctx context.Context, cardToken string, user entity.User, environment string) (*entity.CustomerToken, error) {
	client, err := m.environments.Resolve(environment)
	if err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("email", user.Email)
	payload.Set("card_token", cardToken)

	resp, err := client.Request(ctx, http.MethodPost, "/customers", payload, true)
	if err != nil {
		return nil, err
	}

	body := resp.JSON.Object("response")
	token := body.String("token")
	if token == "" {
		return nil, &errs.PinError{Op: "POST /customers", Environment: client.Name(), Description: "response carries no customer token"}
	}

	now := m.timeProvider.Now()
	customer := &entity.CustomerToken{
		User:        user,
		Token:       token,
		Environment: client.Name(),
		Active:      true,
		CreatedAt:   now,
	}
	card := cardFromFields(body.Object("card"), client.Name(), now)

	err = persistence.WithinTransaction(ctx, m.uow, func(txCtx context.Context) error {
		if err := m.uow.GetCustomerRepository(txCtx).Create(txCtx, customer); err != nil {
			return err
		}
		if card == nil {
			return nil
		}
		stored, err := m.storeCard(txCtx, customer, card)
		if err != nil {
			return err
		}
		customer.Cards = []*entity.CardToken{stored}
		return nil
	})
	if err != nil {
		m.logger.Error("Failed to store customer", map[string]any{
			"environment": client.Name(),
			"token":       token,
			"error":       err.Error(),
		})
		return nil, err
	}

	m.logger.Info("Customer created", map[string]any{
		"customer_id": customer.ID,
		"environment": customer.Environment,
		"user_id":     user.ID,
	})
	m.publish(ctx, coreport.EventCustomerCreated, customer)
	return customer, nil
}

// AddCard stores cardToken against the customer at the gateway and locally.
// A card the customer already holds is refreshed in place.
func (m *Manager) AddCard(ctx context.Context, customer *entity.CustomerToken, cardToken string) (*entity.CardToken, error) {
	if customer == nil || customer.ID == 0 {
		return nil, errs.NewPinError("", "", "customer must be stored")
	}
	var stored *entity.CardToken
	err := m.queue.Do(ctx, customer.ID, func(ctx context.Context) error {
		var err error
		stored, err = m.addCard(ctx, customer, cardToken)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (m *Manager) addCard(ctx context.Context, customer *entity.CustomerToken, cardToken string) (*entity.CardToken, error) {
	client, err := m.environments.Resolve(customer.Environment)
	if err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("card_token", cardToken)

	path := fmt.Sprintf("/customers/%s/cards", url.PathEscape(customer.Token))
	resp, err := client.Request(ctx, http.MethodPost, path, payload, true)
	if err != nil {
		return nil, err
	}

	card := cardFromFields(resp.JSON.Object("response"), client.Name(), m.timeProvider.Now())
	if card == nil {
		return nil, &errs.PinError{Op: "POST " + path, Environment: client.Name(), Description: "response carries no card"}
	}

	var stored *entity.CardToken
	err = persistence.WithinTransaction(ctx, m.uow, func(txCtx context.Context) error {
		var err error
		stored, err = m.storeCard(txCtx, customer, card)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := m.refreshCards(ctx, customer); err != nil {
		return nil, err
	}
	return stored, nil
}

// SetPrimaryCard makes card the customer's only primary card
func (m *Manager) SetPrimaryCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error) {
	return m.serialized(ctx, customer, card, m.setPrimaryCard)
}

func (m *Manager) setPrimaryCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error) {
	if err := m.checkOwnership(ctx, customer, card); err != nil {
		return false, err
	}
	client, err := m.environments.Resolve(customer.Environment)
	if err != nil {
		return false, err
	}

	payload := url.Values{}
	payload.Set("primary_card_token", card.Token)

	path := "/customers/" + url.PathEscape(customer.Token)
	resp, err := client.Request(ctx, http.MethodPut, path, payload, true)
	if err != nil {
		return false, err
	}

	reported := cardFromFields(resp.JSON.Object("response").Object("card"), client.Name(), m.timeProvider.Now())

	err = persistence.WithinTransaction(ctx, m.uow, func(txCtx context.Context) error {
		cards := m.uow.GetCardRepository(txCtx)
		if _, err := cards.ClearPrimary(txCtx, customer.ID, card.ID); err != nil {
			return err
		}
		if reported != nil && reported.Token == card.Token {
			card.UpdateFrom(reported)
		}
		card.IsPrimary = true
		return cards.Update(txCtx, card)
	})
	if err != nil {
		return false, err
	}

	m.logger.Info("Primary card changed", map[string]any{
		"customer_id": customer.ID,
		"card_id":     card.ID,
	})
	return true, m.refreshCards(ctx, customer)
}

// DeleteCard removes card from the customer at the gateway, then locally
func (m *Manager) DeleteCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error) {
	return m.serialized(ctx, customer, card, m.deleteCard)
}

func (m *Manager) deleteCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (bool, error) {
	if err := m.checkOwnership(ctx, customer, card); err != nil {
		return false, err
	}
	client, err := m.environments.Resolve(customer.Environment)
	if err != nil {
		return false, err
	}

	path := fmt.Sprintf("/customers/%s/cards/%s", url.PathEscape(customer.Token), url.PathEscape(card.Token))
	if _, err := client.Delete(ctx, path, nil, false); err != nil {
		return false, err
	}

	err = persistence.WithinTransaction(ctx, m.uow, func(txCtx context.Context) error {
		cards := m.uow.GetCardRepository(txCtx)
		if err := cards.Detach(txCtx, customer.ID, card.ID); err != nil {
			return err
		}
		return cards.Delete(txCtx, card.ID)
	})
	if err != nil {
		return false, err
	}

	m.logger.Info("Card deleted", map[string]any{
		"customer_id": customer.ID,
		"card_id":     card.ID,
	})
	return true, m.refreshCards(ctx, customer)
}

// Cards lists the customer's stored cards
func (m *Manager) Cards(ctx context.Context, customer *entity.CustomerToken) ([]*entity.CardToken, error) {
	return m.uow.GetCardRepository(ctx).ListByCustomer(ctx, customer.ID)
}

type cardOperation func(context.Context, *entity.CustomerToken, *entity.CardToken) (bool, error)

// serialized runs op in the customer's queue
func (m *Manager) serialized(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken, op cardOperation) (bool, error) {
	if customer == nil || customer.ID == 0 {
		return false, errs.NewPinError("", "", "customer and card must both be stored")
	}
	var ok bool
	err := m.queue.Do(ctx, customer.ID, func(ctx context.Context) error {
		var err error
		ok, err = op(ctx, customer, card)
		return err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// checkOwnership fails with a PinError unless card is linked to customer
func (m *Manager) checkOwnership(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) error {
	if customer == nil || card == nil || customer.ID == 0 || card.ID == 0 {
		return errs.NewPinError("", "", "customer and card must both be stored")
	}
	attached, err := m.uow.GetCardRepository(ctx).IsAttached(ctx, customer.ID, card.ID)
	if err != nil {
		return err
	}
	if !attached {
		return errs.NewPinError("", "", fmt.Sprintf("card %s does not belong to customer %s", card.Token, customer.Token))
	}
	return nil
}

// storeCard creates or refreshes card, links it to customer and keeps a single primary.
// A card linked to a different customer is never taken over.
func (m *Manager) storeCard(ctx context.Context, customer *entity.CustomerToken, card *entity.CardToken) (*entity.CardToken, error) {
	cards := m.uow.GetCardRepository(ctx)

	existing, err := cards.GetByToken(ctx, card.Environment, card.Token)
	switch {
	case errors.Is(err, errs.ErrCardNotFound):
		if err := cards.Create(ctx, card); err != nil {
			return nil, err
		}
		existing = card
	case err != nil:
		return nil, err
	default:
		owners, err := cards.CustomerIDs(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		for _, owner := range owners {
			if owner != customer.ID {
				return nil, errs.NewPinError("", "", fmt.Sprintf("card %s already belongs to another customer", card.Token))
			}
		}
		existing.UpdateFrom(card)
		if err := cards.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	if err := cards.Attach(ctx, customer.ID, existing.ID); err != nil {
		return nil, err
	}
	if existing.IsPrimary {
		if _, err := cards.ClearPrimary(ctx, customer.ID, existing.ID); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

func (m *Manager) refreshCards(ctx context.Context, customer *entity.CustomerToken) error {
	cards, err := m.Cards(ctx, customer)
	if err != nil {
		return err
	}
	customer.Cards = cards
	return nil
}

func (m *Manager) publish(ctx context.Context, eventType string, customer *entity.CustomerToken) {
	event := coreport.Event{
		Type:        eventType,
		Environment: customer.Environment,
		Token:       customer.Token,
		RecordID:    customer.ID,
		OccurredAt:  m.timeProvider.Now(),
		Data:        map[string]any{"user_id": customer.User.ID},
	}
	if err := m.events.Publish(ctx, event); err != nil {
		m.logger.Warn("Failed to publish customer event", map[string]any{
			"customer_id": customer.ID,
			"error":       err.Error(),
		})
	}
}
