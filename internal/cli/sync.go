package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/spf13/cobra"
)

type syncFunc func(ctx context.Context, environment string) (entity.SyncResult, error)

func newSyncCommand(opts *rootOptions, use, noun string, pick func(*App) syncFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [environment]",
		Short: fmt.Sprintf("Mirror gateway %ss locally", noun),
		Long: fmt.Sprintf(`Fetches every %s from the gateway and creates or updates the local copy.

Without an environment every configured environment that has a secret is synced.
With --schedule the command keeps running and syncs on the given cron schedule.`, noun),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			stopMetrics := opts.serveMetrics()
			defer stopMetrics()

			run := func(ctx context.Context) error {
				return syncEnvironments(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), targets(app, args), noun, pick(app))
			}

			if opts.schedule != "" {
				return runScheduled(cmd.Context(), app.Logger, opts.schedule, use, run)
			}
			return run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", `Cron schedule to keep syncing on, e.g. "@every 1h"`)
	return cmd
}

// targets returns the environment named in args, or every usable environment
func targets(app *App, args []string) []string {
	if len(args) == 1 {
		return args
	}
	return app.Environments.Usable()
}

// syncEnvironments syncs each environment in turn, reporting counts to out and
// failures to errOut. A failing environment does not stop the others; all
// failures are returned together.
func syncEnvironments(ctx context.Context, out, errOut io.Writer, environments []string, noun string, sync syncFunc) error {
	var failures []error
	for _, env := range environments {
		result, err := sync(ctx, env)
		if err != nil {
			fmt.Fprintf(errOut, "[%s] Failed: %v\n", env, err)
			failures = append(failures, fmt.Errorf("%s: %w", env, err))
			continue
		}
		fmt.Fprintf(out, "[%s] Created %d %s(s)\n", env, result.Created, noun)
		fmt.Fprintf(out, "[%s] Updated %d %s(s)\n", env, result.Updated, noun)
	}
	return errors.Join(failures...)
}
