package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirhossein-jamali/pinpayments/internal/app"
	"github.com/amirhossein-jamali/pinpayments/internal/cli"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, load(ctx), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// load reads configuration and builds the services the commands need
func load(ctx context.Context) cli.Loader {
	return func(configFile string) (*cli.App, error) {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}

		c, err := app.New(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return &cli.App{
			Billing:        c.Billing,
			Environments:   c.Environments,
			Logger:         c.Logger,
			MetricsHandler: c.MetricsHandler(),
			MetricsAddr:    cfg.Metrics.Addr,
			Close:          c.Close,
		}, nil
	}
}
