package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(t *testing.T, ctx context.Context, uow persistence.UnitOfWork, token string) *entity.CustomerToken {
	t.Helper()
	customer := &entity.CustomerToken{
		User:        entity.User{ID: 7, Email: "roland@pinpayments.com"},
		Token:       token,
		Environment: "test",
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, uow.GetCustomerRepository(ctx).Create(ctx, customer))
	return customer
}

func newCard(t *testing.T, ctx context.Context, uow persistence.UnitOfWork, customer *entity.CustomerToken, token string, primary bool) *entity.CardToken {
	t.Helper()
	card := &entity.CardToken{
		Token:         token,
		Environment:   "test",
		Scheme:        "visa",
		DisplayNumber: "XXXX-XXXX-XXXX-0000",
		ExpiryMonth:   5,
		ExpiryYear:    2030,
		IsPrimary:     primary,
		CreatedAt:     time.Now().UTC(),
	}
	cards := uow.GetCardRepository(ctx)
	require.NoError(t, cards.Create(ctx, card))
	require.NoError(t, cards.Attach(ctx, customer.ID, card.ID))
	return card
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()
	repo := uow.GetTransactionRepository(ctx)
	customer := newCustomer(t, ctx, uow, "cus_XZg1ULpWaROQCOT5PdwLkQ")

	tx := &entity.Transaction{
		CreatedAt:   time.Now().UTC(),
		Environment: "test",
		Amount:      decimal.RequireFromString("400.00"),
		Currency:    "AUD",
		Description: "test charge",
		Customer:    customer,
		Email:       "roland@pinpayments.com",
		IPAddress:   "203.192.1.172",
	}

	t.Run("create assigns an ID", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, tx))
		assert.NotZero(t, tx.ID)
	})

	t.Run("mark processed claims exactly once", func(t *testing.T) {
		claimed, err := repo.MarkProcessed(ctx, tx.ID)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = repo.MarkProcessed(ctx, tx.ID)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("update round trips every field", func(t *testing.T) {
		tx.Processed = true
		tx.RecordSuccess("ch_lfUYEBK14zotCTykezJkfg", decimal.NewNullDecimal(decimal.RequireFromString("8.50")), "Success!", entity.CardSnapshot{
			Address1: "42 Sevenoaks St",
			City:     "Lathlain",
			Country:  "Australia",
			Number:   "XXXX-XXXX-XXXX-0000",
			Type:     "visa",
		})
		tx.PinResponseText = `{"response":{}}`
		require.NoError(t, repo.Update(ctx, tx))

		loaded, err := repo.GetByToken(ctx, "ch_lfUYEBK14zotCTykezJkfg")
		require.NoError(t, err)
		assert.Equal(t, tx.ID, loaded.ID)
		assert.True(t, loaded.Processed)
		assert.True(t, loaded.Succeeded)
		assert.True(t, loaded.Amount.Equal(decimal.RequireFromString("400")))
		require.True(t, loaded.Fees.Valid)
		assert.Equal(t, "8.5", loaded.Fees.Decimal.String())
		assert.Equal(t, "Lathlain", loaded.Card.City)
		assert.Equal(t, "visa", loaded.Card.Type)
		require.NotNil(t, loaded.Customer)
		assert.Equal(t, customer.ID, loaded.Customer.ID)
		assert.Equal(t, uint64(7), loaded.Customer.User.ID)
	})

	t.Run("duplicate charge token is rejected", func(t *testing.T) {
		dup := &entity.Transaction{
			CreatedAt:        time.Now().UTC(),
			Environment:      "test",
			Amount:           decimal.NewFromInt(1),
			Currency:         "AUD",
			CardToken:        "card_pIQJKMs93GsCc9vLSLevbw",
			TransactionToken: "ch_lfUYEBK14zotCTykezJkfg",
		}
		assert.ErrorIs(t, repo.Create(ctx, dup), errs.ErrDuplicate)
	})

	t.Run("lookups", func(t *testing.T) {
		exists, err := repo.ExistsByToken(ctx, "ch_lfUYEBK14zotCTykezJkfg")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByToken(ctx, "")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)

		list, err := repo.ListByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("update of missing row", func(t *testing.T) {
		missing := *tx
		missing.ID = 9999
		missing.TransactionToken = ""
		assert.ErrorIs(t, repo.Update(ctx, &missing), errs.ErrTransactionNotFound)
	})
}

func TestMarkProcessedConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()
	repo := uow.GetTransactionRepository(ctx)

	tx := &entity.Transaction{
		CreatedAt:   time.Now().UTC(),
		Environment: "test",
		Amount:      decimal.NewFromInt(10),
		Currency:    "AUD",
		CardToken:   "card_pIQJKMs93GsCc9vLSLevbw",
	}
	require.NoError(t, repo.Create(ctx, tx))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.MarkProcessed(ctx, tx.ID)
			assert.NoError(t, err)
			if claimed {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestCustomerAndCardRepositories(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()
	customers := uow.GetCustomerRepository(ctx)
	cards := uow.GetCardRepository(ctx)

	customer := newCustomer(t, ctx, uow, "cus_1")
	first := newCard(t, ctx, uow, customer, "card_1", true)
	second := newCard(t, ctx, uow, customer, "card_2", false)

	t.Run("duplicate customer token", func(t *testing.T) {
		dup := &entity.CustomerToken{User: customer.User, Token: "cus_1", Environment: "test", CreatedAt: time.Now()}
		assert.ErrorIs(t, customers.Create(ctx, dup), errs.ErrDuplicate)
	})

	t.Run("same token in another environment is allowed", func(t *testing.T) {
		other := &entity.CustomerToken{User: customer.User, Token: "cus_1", Environment: "live", Active: true, CreatedAt: time.Now()}
		require.NoError(t, customers.Create(ctx, other))
	})

	t.Run("cards are loaded with the customer", func(t *testing.T) {
		loaded, err := customers.GetByToken(ctx, "test", "cus_1")
		require.NoError(t, err)
		require.Len(t, loaded.Cards, 2)
		assert.Equal(t, "card_1", loaded.PrimaryCard().Token)
		assert.True(t, loaded.Active)

		list, err := customers.ListByUser(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("attach twice is a no-op", func(t *testing.T) {
		require.NoError(t, cards.Attach(ctx, customer.ID, first.ID))
		list, err := cards.ListByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("clear primary keeps the chosen card", func(t *testing.T) {
		second.IsPrimary = true
		require.NoError(t, cards.Update(ctx, second))

		changed, err := cards.ClearPrimary(ctx, customer.ID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		loaded, err := customers.GetByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "card_2", loaded.PrimaryCard().Token)
		assert.False(t, loaded.FindCard("card_1").IsPrimary)
	})

	t.Run("detach and delete", func(t *testing.T) {
		attached, err := cards.IsAttached(ctx, customer.ID, first.ID)
		require.NoError(t, err)
		assert.True(t, attached)

		require.NoError(t, cards.Detach(ctx, customer.ID, first.ID))
		attached, err = cards.IsAttached(ctx, customer.ID, first.ID)
		require.NoError(t, err)
		assert.False(t, attached)

		require.NoError(t, cards.Delete(ctx, first.ID))
		_, err = cards.GetByToken(ctx, "test", "card_1")
		assert.ErrorIs(t, err, errs.ErrCardNotFound)
		assert.ErrorIs(t, cards.Delete(ctx, first.ID), errs.ErrCardNotFound)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := customers.GetByToken(ctx, "test", "cus_missing")
		assert.ErrorIs(t, err, errs.ErrCustomerNotFound)

		exists, err := customers.ExistsByToken(ctx, "test", "cus_missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})
	t.Run("card owners", func(t *testing.T) {
		owners, err := cards.CustomerIDs(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{customer.ID}, owners)

		other := newCustomer(t, ctx, uow, "cus_2")
		require.NoError(t, cards.Attach(ctx, other.ID, second.ID))
		owners, err = cards.CustomerIDs(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{customer.ID, other.ID}, owners)

		owners, err = cards.CustomerIDs(ctx, second.ID+100)
		require.NoError(t, err)
		assert.Empty(t, owners)
	})
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()

	err := persistence.WithinTransaction(ctx, uow, func(txCtx context.Context) error {
		customer := &entity.CustomerToken{Token: "cus_rollback", Environment: "test", Active: true, CreatedAt: time.Now()}
		if err := uow.GetCustomerRepository(txCtx).Create(txCtx, customer); err != nil {
			return err
		}
		return errs.ErrConstraintViolation
	})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	exists, err := uow.GetCustomerRepository(ctx).ExistsByToken(ctx, "test", "cus_rollback")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPayoutRepositories(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()

	account := &entity.BankAccount{Token: "ba_nytGw7koRg23EEp9NTmz9w", Name: "Mr Roland Robot", BSB: "123456", Number: "XXXXXX321", Environment: "test"}
	require.NoError(t, uow.GetBankAccountRepository(ctx).Create(ctx, account))

	recipient := &entity.Recipient{
		Token:       "rp_a98a4fafROQCOT5PdwLkQ",
		Email:       "roland@pinpayments.com",
		Name:        "Mr Roland Robot",
		BankAccount: account,
		Environment: "test",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, uow.GetRecipientRepository(ctx).Create(ctx, recipient))

	loaded, err := uow.GetRecipientRepository(ctx).GetByToken(ctx, "test", recipient.Token)
	require.NoError(t, err)
	require.NotNil(t, loaded.BankAccount)
	assert.Equal(t, "123456", loaded.BankAccount.BSB)

	transfers := uow.GetTransferRepository(ctx)
	paid := &entity.Transfer{Token: "tfer_lfUYEBK14zotCTykezJkfg", Status: entity.TransferStatusPending, Currency: "AUD", Amount: 40000, Recipient: recipient, Environment: "test", CreatedAt: time.Now().UTC()}
	failed := &entity.Transfer{Status: entity.TransferStatusFailed, Currency: "AUD", Amount: 100, Recipient: recipient, Environment: "test", CreatedAt: time.Now().UTC().Add(time.Second)}
	another := &entity.Transfer{Status: entity.TransferStatusFailed, Currency: "AUD", Amount: 100, Recipient: recipient, Environment: "test", CreatedAt: time.Now().UTC().Add(2 * time.Second)}
	require.NoError(t, transfers.Create(ctx, paid))
	require.NoError(t, transfers.Create(ctx, failed))
	require.NoError(t, transfers.Create(ctx, another))

	got, err := transfers.GetByToken(ctx, "test", paid.Token)
	require.NoError(t, err)
	assert.Equal(t, "400", got.Value().String())
	assert.Equal(t, recipient.ID, got.Recipient.ID)

	list, err := transfers.ListByRecipient(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].Failed())
	assert.Equal(t, paid.ID, list[2].ID)

	_, err = transfers.GetByToken(ctx, "test", "")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBillingRepositories(t *testing.T) {
	ctx := context.Background()
	uow := database.NewTestDB(t).UnitOfWork()
	plans := uow.GetPlanRepository(ctx)

	plan := &entity.Plan{
		Token:        "plan_ZyDee4HNeUHFHC4SpM2idg",
		Environment:  "test",
		Name:         "Coffee Plan",
		Amount:       decimal.RequireFromString("10.00"),
		Currency:     "AUD",
		SetupAmount:  decimal.Zero,
		TrialAmount:  decimal.Zero,
		Interval:     30,
		IntervalUnit: "day",
	}
	require.NoError(t, plans.Create(ctx, plan))
	assert.False(t, plan.CreatedAt.IsZero())

	_, err := plans.GetByToken(ctx, "live", plan.Token)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	plan.Name = "Tea Plan"
	require.NoError(t, plans.Update(ctx, plan))

	loaded, err := plans.GetByToken(ctx, "test", plan.Token)
	require.NoError(t, err)
	assert.True(t, loaded.SameAs(plan))
	assert.Equal(t, "Tea Plan", loaded.Name)

	list, err := plans.ListByEnvironment(ctx, "test")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	subs := uow.GetSubscriptionRepository(ctx)
	next := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	sub := &entity.Subscription{Token: "sub_1", Environment: "test", PlanToken: plan.Token, CustomerToken: "cus_1", State: "active", NextBillingDate: &next}
	require.NoError(t, subs.Create(ctx, sub))

	sub.State = "cancelled"
	require.NoError(t, subs.Update(ctx, sub))

	got, err := subs.ListByCustomer(ctx, "test", "cus_1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cancelled", got[0].State)
	require.NotNil(t, got[0].NextBillingDate)
	assert.True(t, got[0].NextBillingDate.Equal(next))
}
