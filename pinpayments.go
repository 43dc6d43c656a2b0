// Package pinpayments keeps local charge, customer, payout and billing records
// in step with the Pin Payments gateway.
//
// A Client is built from a Config (or a configuration file) and owns the
// database and broker connections behind its services:
//
//	client, err := pinpayments.Load(ctx, "configs/config.yaml")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	tx := pinpayments.NewTransaction("roland@pinpayments.com", "Order 42",
//		decimal.RequireFromString("10.50"), "AUD", cardToken, remoteIP)
//	message, err := client.Charges().Submit(ctx, tx)
package pinpayments

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/pinpayments/internal/app"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
	timeadapter "github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// Configuration
type (
	Config               = config.Config
	PinConfig            = config.PinConfig
	PinEnvironmentConfig = config.PinEnvironmentConfig
	DatabaseConfig       = config.DatabaseConfig
	LoggerConfig         = config.LoggerConfig
	EventsConfig         = config.EventsConfig
	MetricsConfig        = config.MetricsConfig
)

// Records
type (
	User          = entity.User
	Transaction   = entity.Transaction
	CustomerToken = entity.CustomerToken
	CardToken     = entity.CardToken
	Recipient     = entity.Recipient
	BankAccount   = entity.BankAccount
	Transfer      = entity.Transfer
	Plan          = entity.Plan
	Subscription  = entity.Subscription
	SyncResult    = entity.SyncResult
	Balance       = entity.Balance

	RecipientRequest = usecase.RecipientRequest
)

// Services
type (
	ChargeService   = usecase.ChargeUseCase
	CustomerService = usecase.CustomerUseCase
	PayoutService   = usecase.PayoutUseCase
	BillingService  = usecase.BillingUseCase
)

// Errors
type (
	PinError    = errs.PinError
	ConfigError = errs.ConfigError
)

var (
	ErrShuttingDown     = errs.ErrShuttingDown
	ErrInvalidAmount    = errs.ErrInvalidAmount
	ErrInvalidCurrency  = errs.ErrInvalidCurrency
	ErrCardNotFound     = errs.ErrCardNotFound
	ErrCustomerNotFound = errs.ErrCustomerNotFound
)

// IsPinError reports whether err came from the gateway or a gateway-side check
func IsPinError(err error) bool { return errs.IsPinError(err) }

// IsConfigError reports whether err names a missing or incomplete environment
func IsConfigError(err error) bool { return errs.IsConfigError(err) }

// IsNotFoundError reports whether err is a missing local record
func IsNotFoundError(err error) bool { return errs.IsNotFoundError(err) }

// Client gives access to the services built from one configuration
type Client struct {
	container *app.Container
}

// New connects to the database and broker described by cfg
func New(ctx context.Context, cfg *Config) (*Client, error) {
	c, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{container: c}, nil
}

// Load reads configuration from configFile and the environment, then calls New.
// An empty configFile searches the default locations.
func Load(ctx context.Context, configFile string) (*Client, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

func (c *Client) Charges() ChargeService     { return c.container.Charges }
func (c *Client) Customers() CustomerService { return c.container.Customers }
func (c *Client) Payouts() PayoutService     { return c.container.Payouts }
func (c *Client) Billing() BillingService    { return c.container.Billing }

// Environments lists the configured gateway environments that have credentials
func (c *Client) Environments() []string {
	return c.container.Environments.Usable()
}

// MetricsHandler serves the client's Prometheus registry
func (c *Client) MetricsHandler() http.Handler {
	return c.container.MetricsHandler()
}

// Close waits for queued card operations and releases every connection
func (c *Client) Close() error {
	return c.container.Close()
}

// NewTransaction creates an unprocessed charge paid with a one-off card token
func NewTransaction(email, description string, amount decimal.Decimal, currency, cardToken, ipAddress string) *Transaction {
	return entity.NewTransaction(email, description, amount, currency, cardToken, ipAddress, timeadapter.NewRealTimeProvider())
}
