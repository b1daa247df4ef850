package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ratelimitCmd probes the provider and prints the observed budget.
var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Probe the provider and print the rate limit budget",
	Long: `Calls the account endpoint once with the configured credentials and prints the
budget reported in the rate limit headers.`,
	Args: cobra.NoArgs,
	RunE: runRateLimit,
}

func init() {
	RootCmd.AddCommand(ratelimitCmd)
}

func runRateLimit(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	account, err := a.client.MyAccount(ctx)
	if err != nil {
		return err
	}

	state := a.governor.Snapshot()
	fields := []zap.Field{
		zap.String("account", account.Name),
		zap.Int("remaining", state.Remaining),
		zap.Int("limit", state.Limit),
		zap.Int("reset_seconds", state.ResetSeconds),
		zap.Int("threshold", a.cfg.RateLimit.Threshold),
	}
	if !state.LastUpdated.IsZero() {
		fields = append(fields, zap.Time("observed_at", state.LastUpdated))
	} else {
		a.logger.Warn("Provider sent no rate limit headers, showing the configured initial budget")
	}
	a.logger.Info("Rate limit budget", fields...)
	return nil
}
