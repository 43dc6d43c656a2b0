package repository

import (
	"context"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BankAccountRepository implements BankAccountRepository interface using GORM
type BankAccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBankAccountRepository creates a new BankAccountRepository instance
func NewBankAccountRepository(db *gorm.DB, logger coreport.Logger) *BankAccountRepository {
	return &BankAccountRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func bankAccountModelToEntity(m *model.BankAccount) *entity.BankAccount {
	return &entity.BankAccount{
		ID:          m.ID,
		Token:       m.Token,
		BankName:    m.BankName,
		Branch:      m.Branch,
		Name:        m.Name,
		BSB:         m.BSB,
		Number:      m.Number,
		Environment: m.Environment,
	}
}

// Create saves a new bank account and assigns its ID
func (r *BankAccountRepository) Create(ctx context.Context, account *entity.BankAccount) error {
	m := model.BankAccount{
		Token:       account.Token,
		Environment: account.Environment,
		BankName:    account.BankName,
		Branch:      account.Branch,
		Name:        account.Name,
		BSB:         account.BSB,
		Number:      account.Number,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create bank account", map[string]any{
			"environment": account.Environment,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	account.ID = m.ID
	return nil
}

// GetByToken retrieves a bank account by environment and gateway token
func (r *BankAccountRepository) GetByToken(ctx context.Context, environment, token string) (*entity.BankAccount, error) {
	var m model.BankAccount
	err := r.db.WithContext(ctx).First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	return bankAccountModelToEntity(&m), nil
}

// RecipientRepository implements RecipientRepository interface using GORM
type RecipientRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewRecipientRepository creates a new RecipientRepository instance
func NewRecipientRepository(db *gorm.DB, logger coreport.Logger) *RecipientRepository {
	return &RecipientRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func recipientModelToEntity(m *model.Recipient) *entity.Recipient {
	recipient := &entity.Recipient{
		ID:          m.ID,
		Token:       m.Token,
		Email:       m.Email,
		Name:        m.Name,
		CreatedAt:   m.CreatedAt,
		Environment: m.Environment,
	}
	if m.BankAccount != nil {
		recipient.BankAccount = bankAccountModelToEntity(m.BankAccount)
	}
	return recipient
}

// Create saves a new recipient and assigns its ID
func (r *RecipientRepository) Create(ctx context.Context, recipient *entity.Recipient) error {
	m := model.Recipient{
		Token:       recipient.Token,
		Environment: recipient.Environment,
		Email:       recipient.Email,
		Name:        recipient.Name,
		CreatedAt:   recipient.CreatedAt,
	}
	if recipient.BankAccount != nil {
		id := recipient.BankAccount.ID
		m.BankAccountID = &id
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create recipient", map[string]any{
			"environment": recipient.Environment,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrRecipientNotFound)
	}
	recipient.ID = m.ID
	return nil
}

// GetByToken retrieves a recipient with its bank account loaded
func (r *RecipientRepository) GetByToken(ctx context.Context, environment, token string) (*entity.Recipient, error) {
	var m model.Recipient
	err := r.db.WithContext(ctx).
		Preload("BankAccount").
		First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrRecipientNotFound)
	}
	return recipientModelToEntity(&m), nil
}

// ExistsByToken checks whether the environment has a recipient with this token
func (r *RecipientRepository) ExistsByToken(ctx context.Context, environment, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Recipient{}).
		Where("environment = ? AND token = ?", environment, token).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.mapError(err, errs.ErrRecipientNotFound)
	}
	return count > 0, nil
}

// TransferRepository implements TransferRepository interface using GORM
type TransferRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransferRepository creates a new TransferRepository instance
func NewTransferRepository(db *gorm.DB, logger coreport.Logger) *TransferRepository {
	return &TransferRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func transferModelToEntity(m *model.Transfer) *entity.Transfer {
	transfer := &entity.Transfer{
		ID:              m.ID,
		Token:           m.Token,
		Status:          m.Status,
		Currency:        m.Currency,
		Description:     m.Description,
		Amount:          m.Amount,
		Environment:     m.Environment,
		PinResponseText: m.PinResponseText,
		CreatedAt:       m.CreatedAt,
	}
	if m.Recipient != nil {
		transfer.Recipient = recipientModelToEntity(m.Recipient)
	}
	return transfer
}

// Create saves a transfer record and assigns its ID
func (r *TransferRepository) Create(ctx context.Context, transfer *entity.Transfer) error {
	m := model.Transfer{
		Token:           transfer.Token,
		Environment:     transfer.Environment,
		Status:          transfer.Status,
		Currency:        transfer.Currency,
		Description:     transfer.Description,
		Amount:          transfer.Amount,
		RecipientID:     transfer.RecipientID(),
		PinResponseText: transfer.PinResponseText,
		CreatedAt:       transfer.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create transfer", map[string]any{
			"environment": transfer.Environment,
			"status":      transfer.Status,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	transfer.ID = m.ID
	return nil
}

// GetByToken retrieves a transfer with its recipient loaded
func (r *TransferRepository) GetByToken(ctx context.Context, environment, token string) (*entity.Transfer, error) {
	if token == "" {
		return nil, errs.ErrNotFound
	}
	var m model.Transfer
	err := r.db.WithContext(ctx).
		Preload("Recipient.BankAccount").
		First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}
	return transferModelToEntity(&m), nil
}

// ListByRecipient returns transfers to a recipient, newest first
func (r *TransferRepository) ListByRecipient(ctx context.Context, recipientID uint64) ([]*entity.Transfer, error) {
	var models []model.Transfer
	err := r.db.WithContext(ctx).
		Preload("Recipient.BankAccount").
		Where("recipient_id = ?", recipientID).
		Order("created_at desc, id desc").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}

	transfers := make([]*entity.Transfer, 0, len(models))
	for i := range models {
		transfers = append(transfers, transferModelToEntity(&models[i]))
	}
	return transfers, nil
}
