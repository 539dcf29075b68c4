package cmd

import (
	"context"
	"encoding/json"
	"os"

	"inventory-guard/core/inventory"
	"inventory-guard/core/stock"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedAvailable int64
	seedReserved  int64
)

// stockCmd groups the stock counter operations.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Inspect or set live stock counters",
}

var stockShowCmd = &cobra.Command{
	Use:   "show <sku>",
	Short: "Print the counter of a SKU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, logg := loadBase()
		defer logg.Sync()

		_, rdb, closeStores, err := connectStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStores(ctx)

		counter, err := stock.NewStore(rdb).Read(ctx, args[0])
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(counter)
	},
}

var stockSeedCmd = &cobra.Command{
	Use:   "seed <sku>",
	Short: "Overwrite the counter of a SKU, for sale setup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, logg := loadBase()
		defer logg.Sync()

		_, rdb, closeStores, err := connectStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStores(ctx)

		counter := inventory.StockCounter{Available: seedAvailable, Reserved: seedReserved}
		if err := stock.NewStore(rdb).Seed(ctx, args[0], counter); err != nil {
			return err
		}
		logg.Info("Stock counter seeded",
			zap.String("sku", args[0]),
			zap.Int64("available", counter.Available),
			zap.Int64("reserved", counter.Reserved))
		return nil
	},
}

func init() {
	stockSeedCmd.Flags().Int64Var(&seedAvailable, "available", 0, "Available units")
	stockSeedCmd.Flags().Int64Var(&seedReserved, "reserved", 0, "Reserved units")
	_ = stockSeedCmd.MarkFlagRequired("available")

	stockCmd.AddCommand(stockShowCmd, stockSeedCmd)
	RootCmd.AddCommand(stockCmd)
}
