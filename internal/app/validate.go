package app

import (
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
)

// Validate ensures all required configuration values are present
func Validate(cfg *config.Config) error {
	var missing []string

	if len(cfg.Pin.Environments) == 0 {
		missing = append(missing, "pin.environments")
	}
	if cfg.Pin.Default != "" {
		if _, ok := cfg.Pin.Lookup(cfg.Pin.Default); !ok {
			missing = append(missing, fmt.Sprintf("pin.environments.%s (the default environment)", cfg.Pin.Default))
		}
	}

	switch cfg.Database.Driver {
	case database.DriverSQLite:
		if cfg.Database.Database == "" {
			missing = append(missing, "database.database (sqlite file)")
		}
	case database.DriverPostgres:
		if cfg.Database.Host == "" {
			missing = append(missing, "database.host (or PP_DB_HOST environment variable)")
		}
		if cfg.Database.Username == "" {
			missing = append(missing, "database.username (or PP_DB_USERNAME environment variable)")
		}
		if cfg.Database.Database == "" {
			missing = append(missing, "database.database (or PP_DB_NAME environment variable)")
		}
	default:
		missing = append(missing, fmt.Sprintf("database.driver (postgres or sqlite, got %q)", cfg.Database.Driver))
	}

	if cfg.Events.URL != "" && cfg.Events.Exchange == "" {
		missing = append(missing, "events.exchange")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
