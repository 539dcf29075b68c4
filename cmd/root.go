package cmd

import (
	"fmt"
	"os"

	"inventory-guard/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "inventory-guard",
	Short: "Flash-sale inventory guard",
	Long: `Inventory guard keeps the live stock counters of a flash sale consistent
with the order ledger. It expires unpaid reservations, reconciles the counters
against the ledger and pauses the sale when they diverge.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with ISO8601 timestamps reads better on a terminal
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
