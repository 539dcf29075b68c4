package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"inventory-guard/feature/reconcile"

	"github.com/spf13/cobra"
)

var failedOnly bool

// reconcileCmd runs a single reconciliation pass and prints the report.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare live stock with the ledger once",
	Long: `Runs a full reconciliation. Discrepancies are alerted and may pause the
sale exactly as the scheduled run does. Exits non-zero when the pass could not
complete or a product failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.reconciler.RunFullReconciliation(ctx)
		if err != nil {
			return err
		}

		printReport(report, failedOnly)
		if !report.AllPassed() {
			return fmt.Errorf("%d of %d products failed reconciliation", report.FailedSkus, report.TotalSkus)
		}
		return nil
	},
}

func printReport(report *reconcile.Report, onlyFailed bool) {
	fmt.Printf("Report %s at %s\n\n", report.ID, report.Timestamp.Format("2006-01-02 15:04:05Z07:00"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tAVAILABLE\tEXPECTED\tDISCREPANCY\tRESERVED\tPENDING\tDISCREPANCY\tSTATUS")
	for _, res := range report.Results {
		if onlyFailed && res.Passed {
			continue
		}
		status := "ok"
		switch {
		case res.Error != "":
			status = "error: " + res.Error
		case !res.Passed:
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%+d\t%d\t%d\t%+d\t%s\n",
			res.SKU, res.CacheCount, res.LedgerExpected, res.Discrepancy,
			res.Reserved, res.LedgerPending, res.ReservedDiscrepancy, status)
	}
	_ = w.Flush()

	fmt.Printf("\n%d products, %d passed, %d failed, total discrepancy %d\n",
		report.TotalSkus, report.PassedSkus, report.FailedSkus, report.TotalDiscrepancies())
}

func init() {
	reconcileCmd.Flags().BoolVar(&failedOnly, "failed-only", false, "Only print failed products")
	RootCmd.AddCommand(reconcileCmd)
}
