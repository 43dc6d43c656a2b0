package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestDB bundles a migrated in-memory database for tests
type TestDB struct {
	Manager      *Manager
	DB           *gorm.DB
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDB opens a private in-memory sqlite database, migrates it and
// closes it when the test finishes
func NewTestDB(t testing.TB) *TestDB {
	t.Helper()

	log := logger.NewNoopLogger()
	timeProvider := timeprovider.NewRealTimeProvider()

	// shared cache keeps the schema alive across pooled connections;
	// a single connection serialises writers like a real server would
	config := &Config{
		Driver:          DriverSQLite,
		Database:        fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
	}

	manager := NewManager(config, log, timeProvider)
	db, err := manager.Connect()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		Manager:      manager,
		DB:           db,
		Logger:       log,
		TimeProvider: timeProvider,
	}
}

// UnitOfWork returns a unit of work over the test database
func (d *TestDB) UnitOfWork() persistence.UnitOfWork {
	return d.Manager.CreateUnitOfWork()
}
