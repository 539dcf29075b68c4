package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

// sweepCmd runs a single timeout sweep.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire unpaid orders once and release their stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.sweeper.Run(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	RootCmd.AddCommand(sweepCmd)
}
