// Package categorize handles the one-off category suggestion command
package categorize

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bookkeeper/cmd/root"
	"bookkeeper/internal/models"
)

var (
	payeeName string
	amount    string
	note      string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Suggest a category for a single expense using the Gemini model",
	Long: `Ask the Gemini model for an accounting category for one expense, given the
vendor name, an optional amount, and an optional description.

Example:
  bookkeeper categorize -p "ADOBE" --amount 54.99 -n "Creative Cloud subscription"`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&payeeName, "payee", "p", "", "Vendor or payee name to categorize")
	Cmd.Flags().StringVar(&amount, "amount", "", "Transaction amount (optional)")
	Cmd.Flags().StringVarP(&note, "note", "n", "", "Expense description (optional)")
	if err := Cmd.MarkFlagRequired("payee"); err != nil {
		panic(err)
	}
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Categorize command called")

	amt := decimal.Zero
	if amount != "" {
		parsed, err := models.ParseAmount(amount)
		if err != nil {
			root.Log.Fatalf("Error parsing amount: %v", err)
		}
		amt = parsed
	}

	collaborator, err := root.NewCollaborator()
	if err != nil {
		root.Log.Fatalf("Error loading categorization examples: %v", err)
	}

	category, err := collaborator.Categorize(cmd.Context(), payeeName, amt, note)
	if err != nil {
		root.Log.Fatalf("Error categorizing expense: %v", err)
	}

	fmt.Printf("Category: %s\n", category)
}
