package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Application environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment variable the loader reads
const EnvPrefix = "PP"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from configFile, or from <PP_ENV>.yaml in ConfigPaths when
// configFile is empty. A missing search-path file is tolerated so a deployment can be configured
// from environment variables alone.
func LoadConfig(configFile string) (*Config, error) {
	// .env is optional; variables already set in the process win
	_ = loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(env)
		v.SetConfigType("yaml")
		for _, path := range ConfigPaths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("pin.defaultEnvironment", "test")
	v.SetDefault("pin.timeout", 30) // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.callerInfo", false)

	v.SetDefault("events.exchange", "pinpayments.events")
	v.SetDefault("events.dialTimeout", 10) // seconds

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9102")
}

// getEnvironment determines the application environment from PP_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides applies environment variables that AutomaticEnv cannot map on its own.
// Gateway credentials come from PP_PIN_<NAME>_KEY, PP_PIN_<NAME>_SECRET and PP_PIN_<NAME>_HOST.
func processEnvOverrides(v *viper.Viper) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		name, field, ok := parsePinEnvVar(key)
		if !ok {
			continue
		}
		v.Set("pin.environments."+name+"."+field, value)
	}

	if defaultEnv := os.Getenv("PP_PIN_DEFAULT_ENVIRONMENT"); defaultEnv != "" {
		v.Set("pin.defaultEnvironment", defaultEnv)
	}
	if timeout := getEnvInt("PP_PIN_TIMEOUT_SECONDS", 0); timeout > 0 {
		v.Set("pin.timeout", timeout)
	}

	if dbDriver := os.Getenv("PP_DB_DRIVER"); dbDriver != "" {
		v.Set("database.driver", dbDriver)
	}
	if dbHost := os.Getenv("PP_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("PP_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("PP_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("PP_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("PP_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("PP_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}
	if maxOpenConns := getEnvInt("PP_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}

	if logLevel := os.Getenv("PP_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}

	if eventsURL := os.Getenv("PP_EVENTS_URL"); eventsURL != "" {
		v.Set("events.url", eventsURL)
	}
}

// parsePinEnvVar splits PP_PIN_<NAME>_<FIELD> into a lower-case environment name and field
func parsePinEnvVar(key string) (name, field string, ok bool) {
	rest, found := strings.CutPrefix(key, EnvPrefix+"_PIN_")
	if !found {
		return "", "", false
	}
	for _, suffix := range []string{"_KEY", "_SECRET", "_HOST"} {
		if n, found := strings.CutSuffix(rest, suffix); found && n != "" {
			return strings.ToLower(n), strings.ToLower(strings.TrimPrefix(suffix, "_")), true
		}
	}
	return "", "", false
}

// getEnvInt reads an integer environment variable, returning defaultVal when unset or invalid
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Pin.Timeout = time.Duration(config.Pin.Timeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Events.DialTimeout = time.Duration(config.Events.DialTimeout) * time.Second
}
