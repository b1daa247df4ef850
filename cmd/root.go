package cmd

import (
	"fmt"
	"os"

	"payment-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "payment-sync",
	Short: "Asaas payment synchronization",
	Long: `payment-sync mirrors Asaas customers, charges and installment plans into a
local SQL store. Every provider call goes through a shared rate limit governor,
and every run reports exactly which fields changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps (development config) for CLI output.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
