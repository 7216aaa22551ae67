package models

import "github.com/shopspring/decimal"

// CategorySummary is one row of the derived category-total table.
type CategorySummary struct {
	Category    string          `csv:"category"`
	TotalAmount decimal.Decimal `csv:"total_amount"`
}
