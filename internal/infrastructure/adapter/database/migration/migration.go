package migration

import (
	"context"
	"errors"

	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.1.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll brings the schema to CurrentSchemaVersion. Running it twice is a no-op.
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	if err := db.AutoMigrate(&model.SchemaVersion{}); err != nil {
		m.logger.Error("Failed to create schema version table", map[string]any{"error": err.Error()})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{"error": err.Error()})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Debug("Database already at target version", map[string]any{"version": currentVersion})
		return nil
	}

	m.logger.Info("Starting database migrations", map[string]any{
		"from": currentVersion,
		"to":   CurrentSchemaVersion,
	})

	if err := db.AutoMigrate(Models()...); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{"error": err.Error()})
		return err
	}

	if err := m.runVersionedMigrations(db, currentVersion); err != nil {
		m.logger.Error("Failed to run versioned migrations", map[string]any{
			"error":           err.Error(),
			"current_version": currentVersion,
		})
		return err
	}

	if err := m.setVersion(db, CurrentSchemaVersion, "pin payments schema"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{"error": err.Error()})
		return err
	}

	m.logger.Info("Database migrations completed", map[string]any{"version": CurrentSchemaVersion})
	return nil
}

// Models lists every table managed by the migrations
func Models() []any {
	return []any{
		&model.CustomerToken{},
		&model.CardToken{},
		&model.CustomerCard{},
		&model.Transaction{},
		&model.BankAccount{},
		&model.Recipient{},
		&model.Transfer{},
		&model.Plan{},
		&model.Subscription{},
	}
}

// GetCurrentVersion returns the last applied version, or "" on a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	var version model.SchemaVersion
	err := m.db.WithContext(ctx).Order("applied_at desc, id desc").First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return version.Version, nil
}

func (m *MigrationManager) setVersion(db *gorm.DB, version, description string) error {
	return db.Create(&model.SchemaVersion{
		Version:     version,
		Description: description,
		AppliedAt:   m.timeProvider.Now(),
	}).Error
}

func (m *MigrationManager) runVersionedMigrations(db *gorm.DB, currentVersion string) error {
	switch currentVersion {
	case "":
		fallthrough
	case "1.0.0":
		// billing tables arrived in 1.1.0 and need no data changes
		if err := m.createTokenIndexes(db); err != nil {
			return err
		}
	}
	return nil
}

// createTokenIndexes adds the partial unique indexes AutoMigrate cannot express.
// Both postgres and sqlite accept this syntax.
func (m *MigrationManager) createTokenIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pin_transactions_token_unique ON pin_transactions (transaction_token) WHERE transaction_token <> ''",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pin_transfers_token_unique ON pin_transfers (environment, token) WHERE token <> ''",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
