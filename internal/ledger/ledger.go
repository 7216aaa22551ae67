// Package ledger implements the merge and propagation operations over the
// historical transaction table: dedup against identity keys, appending
// categorized rows, retroactive note/category propagation, and the derived
// category summary.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
)

// AmountRange restricts propagation to rows whose signed amount falls within
// [Low, High] inclusive.
type AmountRange struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// RangeOf returns the inclusive signed-amount range covering txns, or nil for
// an empty slice.
func RangeOf(txns []models.Transaction) *AmountRange {
	if len(txns) == 0 {
		return nil
	}
	r := AmountRange{Low: txns[0].Amount, High: txns[0].Amount}
	for _, t := range txns[1:] {
		if t.Amount.LessThan(r.Low) {
			r.Low = t.Amount
		}
		if t.Amount.GreaterThan(r.High) {
			r.High = t.Amount
		}
	}
	return &r
}

func (r *AmountRange) contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(r.Low) && amount.LessThanOrEqual(r.High)
}

// Dedup filters incoming down to rows whose identity key (raw payee, date,
// amount) is not already present in existing. Re-ingesting a statement is
// therefore safe: previously saved rows produce zero new work.
func Dedup(existing, incoming []models.Transaction) []models.Transaction {
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].Key()] = true
	}

	var fresh []models.Transaction
	for _, t := range incoming {
		if !seen[t.Key()] {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

// Append concatenates categorized rows onto the table. No key-collision check
// happens here; callers pass rows that already went through Dedup.
func Append(existing, categorized []models.Transaction) []models.Transaction {
	return append(existing, categorized...)
}

// Propagate overwrites note and category on every row whose normalized payee
// equals vendorKey and, when amountRange is non-nil, whose signed amount lies
// within the range. This retroactively relabels all historical rows for the
// vendor so one human decision stays consistent over time.
func Propagate(existing []models.Transaction, vendorKey, note, category string, amountRange *AmountRange) []models.Transaction {
	for i := range existing {
		if existing[i].NormalizedPayee != vendorKey {
			continue
		}
		if amountRange != nil && !amountRange.contains(existing[i].Amount) {
			continue
		}
		existing[i].Note = note
		existing[i].Category = category
	}
	return existing
}

// Summarize groups the table by category, including the unlabeled bucket,
// and sums the signed amounts. Output is sorted by category name so summary
// files are stable across runs. Empty input yields an empty slice.
func Summarize(existing []models.Transaction) []models.CategorySummary {
	totals := make(map[string]decimal.Decimal)
	for _, t := range existing {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	summaries := make([]models.CategorySummary, 0, len(totals))
	for category, total := range totals {
		summaries = append(summaries, models.CategorySummary{
			Category:    category,
			TotalAmount: total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}

// ApplyVendorMapping substitutes resolved canonical names over the normalized
// payee column. Keys absent from the mapping keep their current value.
func ApplyVendorMapping(txns []models.Transaction, mapping map[string]string) {
	for i := range txns {
		if canonical, ok := mapping[txns[i].NormalizedPayee]; ok && canonical != "" {
			txns[i].NormalizedPayee = canonical
		}
	}
}
