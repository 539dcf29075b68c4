package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSchema bool

// checkCmd verifies connectivity and the ledger schema.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify store connectivity and the ledger schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, logg := loadBase()
		defer logg.Sync()

		repo, _, closeStores, err := connectStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStores(ctx)
		logg.Info("Ledger and stock store reachable")

		if migrateSchema {
			if err := repo.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate ledger: %w", err)
			}
			logg.Info("Ledger schema migrated")
		}

		if err := repo.VerifySchema(ctx); err != nil {
			return err
		}

		skus, err := repo.ActiveProducts(ctx)
		if err != nil {
			return err
		}
		logg.Info("Ledger schema OK", zap.Int("active_products", len(skus)))
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&migrateSchema, "migrate", false, "Create or update the ledger tables first")
	RootCmd.AddCommand(checkCmd)
}
