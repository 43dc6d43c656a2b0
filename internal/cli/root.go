package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/usecase"
	"github.com/spf13/cobra"
)

// App holds the services the commands run against
type App struct {
	Billing      usecase.BillingUseCase
	Environments gateway.Environments
	Logger       core.Logger

	// MetricsHandler serves collected metrics; nil when metrics are disabled
	MetricsHandler http.Handler
	MetricsAddr    string

	// Close releases database and broker connections
	Close func() error
}

// Loader builds the App from the config file named on the command line ("" searches the defaults)
type Loader func(configFile string) (*App, error)

type rootOptions struct {
	configFile string
	schedule   string
	metrics    bool

	load Loader
	app  *App
}

// NewRootCommand creates the pinctl command tree
func NewRootCommand(load Loader) *cobra.Command {
	return newRootCommand(&rootOptions{load: load})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "pinctl",
		Short:         "Pin Payments record keeping tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.load(opts.configFile)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			opts.app = app
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default configs/<PP_ENV>.yaml)")
	root.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "Serve prometheus metrics while the command runs")

	root.AddCommand(newSyncCommand(opts, "sync-plans", "plan", func(app *App) syncFunc { return app.Billing.SyncPlans }))
	root.AddCommand(newSyncCommand(opts, "sync-subscriptions", "subscription", func(app *App) syncFunc { return app.Billing.SyncSubscriptions }))
	root.AddCommand(newBalanceCommand(opts))

	return root
}

// Execute runs the command tree with args and reports the error to stderr
func Execute(ctx context.Context, load Loader, args []string, stdout, stderr io.Writer) error {
	opts := &rootOptions{load: load}
	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if opts.app != nil && opts.app.Close != nil {
		err = errors.Join(err, opts.app.Close())
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}

// serveMetrics starts the metrics endpoint when requested and returns its shutdown function
func (o *rootOptions) serveMetrics() func() {
	if !o.metrics || o.app.MetricsHandler == nil {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", o.app.MetricsHandler)
	server := &http.Server{
		Addr:              o.app.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		o.app.Logger.Info("Serving metrics", map[string]any{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.app.Logger.Error("Metrics server failed", map[string]any{"error": err.Error()})
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
