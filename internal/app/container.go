// Package app assembles the services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/usecase/billing"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/usecase/charge"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/usecase/customer"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/usecase/payout"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/messaging"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/pin"
	timeadapter "github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Container holds every wired service and the resources they share
type Container struct {
	Config       *config.Config
	Logger       core.Logger
	Environments *pin.Environments
	UnitOfWork   persistence.UnitOfWork

	Charges   *charge.Service
	Customers *customer.Manager
	Payouts   *payout.Service
	Billing   *billing.Service

	Metrics *metrics.PrometheusMetrics
	Events  core.EventPublisher

	db *database.Manager
}

// New connects to the database and broker described by cfg and builds the services
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	log, err := logger.NewZapLogger(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log = log.With(map[string]any{"env": cfg.Environment})

	tp := timeadapter.NewRealTimeProvider()
	c := &Container{Config: cfg, Logger: log}

	c.db = database.NewManager(DatabaseConfig(cfg), log, tp)
	if _, err := c.db.Connect(); err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := c.db.Migrate(ctx); err != nil {
			_ = c.db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	c.Metrics = metrics.NewPrometheusMetrics(prometheus.NewRegistry())
	if err := c.db.RegisterMetrics(c.Metrics); err != nil {
		log.Warn("Database pool metrics unavailable", map[string]any{"error": err.Error()})
	}

	c.Events = messaging.NewNoopPublisher()
	if cfg.Events.URL != "" {
		publisher, err := messaging.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange, cfg.Events.DialTimeout, log)
		if err != nil {
			_ = c.db.Close()
			return nil, err
		}
		c.Events = publisher
	}

	c.UnitOfWork = c.db.CreateUnitOfWork()
	c.Environments = pin.NewEnvironments(cfg.Pin, nil, cfg.Pin.Timeout, log, c.Metrics, tp)

	c.Charges = charge.NewService(c.UnitOfWork, c.Environments, c.Events, c.Metrics, tp, log)
	c.Customers = customer.NewManager(c.UnitOfWork, c.Environments, c.Events, tp, log)
	c.Payouts = payout.NewService(c.UnitOfWork, c.Environments, c.Events, c.Metrics, tp, log)
	c.Billing = billing.NewService(c.UnitOfWork, c.Environments, c.Metrics, tp, log)

	return c, nil
}

// MetricsHandler serves the container's metrics registry
func (c *Container) MetricsHandler() http.Handler {
	return c.Metrics.Handler()
}

// Close drains queued card operations, releases the broker and database
// connections and flushes the logger
func (c *Container) Close() error {
	var closeErrs []error
	if c.Customers != nil {
		c.Customers.Shutdown()
	}
	if c.Events != nil {
		closeErrs = append(closeErrs, c.Events.Close())
	}
	if c.db != nil {
		closeErrs = append(closeErrs, c.db.Close())
	}
	_ = c.Logger.Flush()
	return errors.Join(closeErrs...)
}

// DatabaseConfig maps the application settings onto the database adapter's
func DatabaseConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}
}
