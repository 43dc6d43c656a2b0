package config

import (
	"sort"
	"strings"
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Pin         PinConfig      `mapstructure:"pin"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Events      EventsConfig   `mapstructure:"events"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

// PinConfig holds the gateway environments and request settings
type PinConfig struct {
	Default      string                          `mapstructure:"defaultEnvironment"`
	Environments map[string]PinEnvironmentConfig `mapstructure:"environments"`
	Timeout      time.Duration                   `mapstructure:"timeout"` // seconds
}

// PinEnvironmentConfig holds the credentials of one gateway environment
type PinEnvironmentConfig struct {
	Key    string `mapstructure:"key"`
	Secret string `mapstructure:"secret"`
	Host   string `mapstructure:"host"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"` // database name, or file path for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// EventsConfig contains the event broker settings; events are disabled when URL is empty
type EventsConfig struct {
	URL         string        `mapstructure:"url"`
	Exchange    string        `mapstructure:"exchange"`
	DialTimeout time.Duration `mapstructure:"dialTimeout"` // seconds
}

// MetricsConfig contains the metrics endpoint settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Lookup returns the credentials of a configured gateway environment
func (p PinConfig) Lookup(name string) (gateway.Credentials, bool) {
	env, ok := p.Environments[strings.ToLower(name)]
	if !ok {
		return gateway.Credentials{}, false
	}
	return gateway.Credentials{Key: env.Key, Secret: env.Secret, Host: env.Host}, true
}

// DefaultEnvironment names the environment used when none is given
func (p PinConfig) DefaultEnvironment() string {
	return p.Default
}

// EnvironmentNames lists the configured gateway environments
func (p PinConfig) EnvironmentNames() []string {
	names := make([]string, 0, len(p.Environments))
	for name := range p.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ gateway.CredentialSource = PinConfig{}
