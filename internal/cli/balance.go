package cli

import (
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/spf13/cobra"
)

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "balance [environment]",
		Short: "Show the available and pending account balance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			out := cmd.OutOrStdout()

			var failures []error
			for _, env := range targets(app, args) {
				b, err := app.Billing.Balance(cmd.Context(), env, currency)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s] Failed: %v\n", env, err)
					failures = append(failures, fmt.Errorf("%s: %w", env, err))
					continue
				}
				fmt.Fprintf(out, "[%s] Available: %s\n", env, entity.FormatValue(b.Available, b.Currency))
				fmt.Fprintf(out, "[%s] Pending: %s\n", env, entity.FormatValue(b.Pending, b.Currency))
			}
			return errors.Join(failures...)
		},
	}
	cmd.Flags().StringVar(&currency, "currency", entity.DefaultCurrency, "Currency to report")
	return cmd
}
