package repository

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(t *entity.Transaction) model.Transaction {
	m := model.Transaction{
		ID:               t.ID,
		CreatedAt:        t.CreatedAt,
		Environment:      t.Environment,
		Amount:           decimalString(t.Amount),
		Currency:         t.Currency,
		Description:      t.Description,
		Processed:        t.Processed,
		Succeeded:        t.Succeeded,
		CardToken:        t.CardToken,
		CustomerID:       t.CustomerID(),
		TransactionToken: t.TransactionToken,
		PinResponse:      t.PinResponse,
		PinResponseText:  t.PinResponseText,
		CardAddress1:     t.Card.Address1,
		CardAddress2:     t.Card.Address2,
		CardCity:         t.Card.City,
		CardState:        t.Card.State,
		CardPostcode:     t.Card.Postcode,
		CardCountry:      t.Card.Country,
		CardNumber:       t.Card.Number,
		CardType:         t.Card.Type,
		IPAddress:        t.IPAddress,
		Email:            t.Email,
	}
	if t.Fees.Valid {
		fees := decimalString(t.Fees.Decimal)
		m.Fees = &fees
	}
	return m
}

// modelToEntity converts a database model to a transaction entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	t := &entity.Transaction{
		ID:               m.ID,
		CreatedAt:        m.CreatedAt,
		Environment:      m.Environment,
		Amount:           parseDecimal(m.Amount),
		Currency:         m.Currency,
		Description:      m.Description,
		Processed:        m.Processed,
		Succeeded:        m.Succeeded,
		CardToken:        m.CardToken,
		TransactionToken: m.TransactionToken,
		PinResponse:      m.PinResponse,
		PinResponseText:  m.PinResponseText,
		Card: entity.CardSnapshot{
			Address1: m.CardAddress1,
			Address2: m.CardAddress2,
			City:     m.CardCity,
			State:    m.CardState,
			Postcode: m.CardPostcode,
			Country:  m.CardCountry,
			Number:   m.CardNumber,
			Type:     m.CardType,
		},
		IPAddress: m.IPAddress,
		Email:     m.Email,
	}
	if m.Fees != nil {
		t.Fees = decimal.NewNullDecimal(parseDecimal(*m.Fees))
	}
	if m.Customer != nil {
		t.Customer = customerModelToEntity(m.Customer)
	}
	return t
}

// Create saves a new transaction and assigns its ID
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	m := r.entityToModel(transaction)

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create transaction", map[string]any{
			"environment": transaction.Environment,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}

	transaction.ID = m.ID
	r.logger.Debug("Transaction created", map[string]any{
		"transaction_id": m.ID,
		"environment":    m.Environment,
		"processed":      m.Processed,
	})
	return nil
}

// Update saves every field of an existing transaction, retrying transient failures
func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	m := r.entityToModel(transaction)

	var rowsAffected int64
	err := RetryOnTransientError(ctx, DefaultRetryConfig(), func() error {
		result := r.db.WithContext(ctx).
			Model(&model.Transaction{}).
			Where("id = ?", transaction.ID).
			Select("*").
			Omit("id", clause.Associations).
			Updates(&m)
		rowsAffected = result.RowsAffected
		return result.Error
	}, r.logger)
	if err != nil {
		r.logger.Error("Failed to update transaction", map[string]any{
			"transaction_id": transaction.ID,
			"error":          err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	if rowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}
	return nil
}

// MarkProcessed claims the transaction with a conditional update
func (r *TransactionRepository) MarkProcessed(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND processed = ?", id, false).
		Update("processed", true)
	if result.Error != nil {
		return false, r.errorClassifier.mapError(result.Error, errs.ErrTransactionNotFound)
	}

	claimed := result.RowsAffected == 1
	r.logger.Debug("Transaction claim attempted", map[string]any{
		"transaction_id": id,
		"claimed":        claimed,
	})
	return claimed, nil
}

// GetByID retrieves a transaction with its customer loaded
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var m model.Transaction
	if err := r.db.WithContext(ctx).Preload("Customer").First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	return r.modelToEntity(&m), nil
}

// GetByToken retrieves a transaction by the gateway charge token
func (r *TransactionRepository) GetByToken(ctx context.Context, token string) (*entity.Transaction, error) {
	if token == "" {
		return nil, errs.ErrTransactionNotFound
	}
	var m model.Transaction
	if err := r.db.WithContext(ctx).Preload("Customer").First(&m, "transaction_token = ?", token).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	return r.modelToEntity(&m), nil
}

// ExistsByToken checks whether a transaction carries the gateway charge token
func (r *TransactionRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("transaction_token = ?", token).Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	return count > 0, nil
}

// ListByCustomer returns the customer's transactions, newest first
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID uint64) ([]*entity.Transaction, error) {
	var models []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}
