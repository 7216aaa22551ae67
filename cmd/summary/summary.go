// Package summary handles regeneration of the category summary table
package summary

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookkeeper/cmd/root"
	"bookkeeper/internal/ledger"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Regenerate the category summary table from the ledger",
	Long: `Recompute per-category totals from the ledger table for the selected
account scope and rewrite the summary CSV.

Example:
  bookkeeper summary -a business`,
	Run: summaryFunc,
}

func summaryFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Summary command called")

	store := root.NewStore()
	scope := root.SharedFlags.Account

	txns, err := store.Load(scope)
	if err != nil {
		root.Log.Fatalf("Error loading ledger table: %v", err)
	}

	summaries := ledger.Summarize(txns)
	if err := store.SaveSummary(scope, summaries); err != nil {
		root.Log.Fatalf("Error saving summary table: %v", err)
	}

	for _, s := range summaries {
		category := s.Category
		if category == "" {
			category = "(uncategorized)"
		}
		fmt.Printf("%-40s %12s\n", category, s.TotalAmount.StringFixed(2))
	}
	root.Log.WithField("file", store.SummaryPath(scope)).Info("Summary table written")
}
