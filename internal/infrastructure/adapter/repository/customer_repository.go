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

// CustomerRepository implements CustomerRepository interface using GORM
type CustomerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
	cards           *CardRepository
}

// NewCustomerRepository creates a new CustomerRepository instance
func NewCustomerRepository(db *gorm.DB, logger coreport.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
		cards:           NewCardRepository(db, logger),
	}
}

func customerEntityToModel(c *entity.CustomerToken) model.CustomerToken {
	return model.CustomerToken{
		ID:          c.ID,
		UserID:      c.User.ID,
		UserEmail:   c.User.Email,
		Token:       c.Token,
		Environment: c.Environment,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func customerModelToEntity(m *model.CustomerToken) *entity.CustomerToken {
	return &entity.CustomerToken{
		ID:          m.ID,
		User:        entity.User{ID: m.UserID, Email: m.UserEmail},
		Token:       m.Token,
		Environment: m.Environment,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
}

// Create saves a new customer token and assigns its ID
func (r *CustomerRepository) Create(ctx context.Context, customer *entity.CustomerToken) error {
	m := customerEntityToModel(customer)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create customer token", map[string]any{
			"environment": customer.Environment,
			"token":       customer.Token,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrCustomerNotFound)
	}
	customer.ID = m.ID
	return nil
}

// Update saves the customer's own fields
func (r *CustomerRepository) Update(ctx context.Context, customer *entity.CustomerToken) error {
	m := customerEntityToModel(customer)
	result := r.db.WithContext(ctx).
		Model(&model.CustomerToken{}).
		Where("id = ?", customer.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&m)
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrCustomerNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCustomerNotFound
	}
	return nil
}

// GetByID retrieves a customer token with its cards loaded
func (r *CustomerRepository) GetByID(ctx context.Context, id uint64) (*entity.CustomerToken, error) {
	var m model.CustomerToken
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCustomerNotFound)
	}
	return r.withCards(ctx, &m)
}

// GetByToken retrieves a customer token by environment and gateway token
func (r *CustomerRepository) GetByToken(ctx context.Context, environment, token string) (*entity.CustomerToken, error) {
	var m model.CustomerToken
	err := r.db.WithContext(ctx).First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCustomerNotFound)
	}
	return r.withCards(ctx, &m)
}

// ExistsByToken checks whether the environment has a customer with this token
func (r *CustomerRepository) ExistsByToken(ctx context.Context, environment, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CustomerToken{}).
		Where("environment = ? AND token = ?", environment, token).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.mapError(err, errs.ErrCustomerNotFound)
	}
	return count > 0, nil
}

// ListByUser returns the user's customer tokens with cards loaded
func (r *CustomerRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.CustomerToken, error) {
	var models []model.CustomerToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCustomerNotFound)
	}

	customers := make([]*entity.CustomerToken, 0, len(models))
	for i := range models {
		customer, err := r.withCards(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (r *CustomerRepository) withCards(ctx context.Context, m *model.CustomerToken) (*entity.CustomerToken, error) {
	customer := customerModelToEntity(m)
	cards, err := r.cards.ListByCustomer(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	customer.Cards = cards
	return customer, nil
}

// CardRepository implements CardRepository interface using GORM
type CardRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCardRepository creates a new CardRepository instance
func NewCardRepository(db *gorm.DB, logger coreport.Logger) *CardRepository {
	return &CardRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func cardEntityToModel(c *entity.CardToken) model.CardToken {
	return model.CardToken{
		ID:              c.ID,
		Token:           c.Token,
		Environment:     c.Environment,
		Scheme:          c.Scheme,
		DisplayNumber:   c.DisplayNumber,
		Name:            c.Name,
		ExpiryMonth:     c.ExpiryMonth,
		ExpiryYear:      c.ExpiryYear,
		AddressLine1:    c.AddressLine1,
		AddressLine2:    c.AddressLine2,
		AddressCity:     c.AddressCity,
		AddressState:    c.AddressState,
		AddressPostcode: c.AddressPostcode,
		AddressCountry:  c.AddressCountry,
		IsPrimary:       c.IsPrimary,
		CreatedAt:       c.CreatedAt,
	}
}

func cardModelToEntity(m *model.CardToken) *entity.CardToken {
	return &entity.CardToken{
		ID:              m.ID,
		Token:           m.Token,
		Environment:     m.Environment,
		Scheme:          m.Scheme,
		DisplayNumber:   m.DisplayNumber,
		Name:            m.Name,
		ExpiryMonth:     m.ExpiryMonth,
		ExpiryYear:      m.ExpiryYear,
		AddressLine1:    m.AddressLine1,
		AddressLine2:    m.AddressLine2,
		AddressCity:     m.AddressCity,
		AddressState:    m.AddressState,
		AddressPostcode: m.AddressPostcode,
		AddressCountry:  m.AddressCountry,
		IsPrimary:       m.IsPrimary,
		CreatedAt:       m.CreatedAt,
	}
}

// Create saves a new card token and assigns its ID
func (r *CardRepository) Create(ctx context.Context, card *entity.CardToken) error {
	m := cardEntityToModel(card)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Error("Failed to create card token", map[string]any{
			"environment": card.Environment,
			"token":       card.Token,
			"error":       err.Error(),
		})
		return r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}
	card.ID = m.ID
	return nil
}

// Update saves every field of an existing card token
func (r *CardRepository) Update(ctx context.Context, card *entity.CardToken) error {
	m := cardEntityToModel(card)
	result := r.db.WithContext(ctx).
		Model(&model.CardToken{}).
		Where("id = ?", card.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&m)
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrCardNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCardNotFound
	}
	return nil
}

// Delete removes a card token and its customer links
func (r *CardRepository) Delete(ctx context.Context, cardID uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("card_token_id = ?", cardID).Delete(&model.CustomerCard{}).Error; err != nil {
		return r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}
	result := db.Delete(&model.CardToken{}, "id = ?", cardID)
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrCardNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCardNotFound
	}
	return nil
}

// GetByToken retrieves a card token by environment and gateway token
func (r *CardRepository) GetByToken(ctx context.Context, environment, token string) (*entity.CardToken, error) {
	var m model.CardToken
	err := r.db.WithContext(ctx).First(&m, "environment = ? AND token = ?", environment, token).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}
	return cardModelToEntity(&m), nil
}

// ListByCustomer returns the cards linked to a customer, oldest first
func (r *CardRepository) ListByCustomer(ctx context.Context, customerID uint64) ([]*entity.CardToken, error) {
	var models []model.CardToken
	err := r.db.WithContext(ctx).
		Joins("JOIN customer_token_cards ON customer_token_cards.card_token_id = card_tokens.id").
		Where("customer_token_cards.customer_token_id = ?", customerID).
		Order("card_tokens.id").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}

	cards := make([]*entity.CardToken, 0, len(models))
	for i := range models {
		cards = append(cards, cardModelToEntity(&models[i]))
	}
	return cards, nil
}

// Attach links a card to a customer
func (r *CardRepository) Attach(ctx context.Context, customerID, cardID uint64) error {
	link := model.CustomerCard{CustomerTokenID: customerID, CardTokenID: cardID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	return r.errorClassifier.mapError(err, errs.ErrCardNotFound)
}

// Detach removes the link between a card and a customer
func (r *CardRepository) Detach(ctx context.Context, customerID, cardID uint64) error {
	err := r.db.WithContext(ctx).
		Where("customer_token_id = ? AND card_token_id = ?", customerID, cardID).
		Delete(&model.CustomerCard{}).Error
	return r.errorClassifier.mapError(err, errs.ErrCardNotFound)
}

// IsAttached checks whether a card is linked to a customer
func (r *CardRepository) IsAttached(ctx context.Context, customerID, cardID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CustomerCard{}).
		Where("customer_token_id = ? AND card_token_id = ?", customerID, cardID).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}
	return count > 0, nil
}

// CustomerIDs returns the customers a card is linked to
func (r *CardRepository) CustomerIDs(ctx context.Context, cardID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.CustomerCard{}).
		Where("card_token_id = ?", cardID).
		Order("customer_token_id").
		Pluck("customer_token_id", &ids).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrCardNotFound)
	}
	return ids, nil
}

// ClearPrimary unsets the primary flag on every card of the customer except keepCardID
func (r *CardRepository) ClearPrimary(ctx context.Context, customerID, keepCardID uint64) (int64, error) {
	owned := r.db.Model(&model.CustomerCard{}).
		Select("card_token_id").
		Where("customer_token_id = ?", customerID)

	result := r.db.WithContext(ctx).
		Model(&model.CardToken{}).
		Where("id IN (?) AND id <> ? AND is_primary = ?", owned, keepCardID, true).
		Update("is_primary", false)
	if result.Error != nil {
		return 0, r.errorClassifier.mapError(result.Error, errs.ErrCardNotFound)
	}
	return result.RowsAffected, nil
}
