// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/dateutils"
)

// Date wraps time.Time for CSV serialization. Unparseable input coerces to
// the zero value instead of failing, so a damaged date in a stored table
// degrades the dedup key for that row rather than aborting the load.
type Date struct {
	time.Time
}

// NewDate creates a Date from a time.Time value.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate parses a date string using the common statement formats.
// Failure yields the zero sentinel, never an error.
func ParseDate(s string) Date {
	t, err := dateutils.ParseDateString(s)
	if err != nil {
		return Date{}
	}
	return Date{Time: t}
}

// MarshalCSV renders the date as ISO (YYYY-MM-DD), or empty for the sentinel.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateutils.DateLayoutISO), nil
}

// UnmarshalCSV parses a stored date field, coercing failures to the sentinel.
func (d *Date) UnmarshalCSV(field string) error {
	*d = ParseDate(field)
	return nil
}

// Transaction represents one bank ledger line. The identity key is the exact
// (raw payee, date, amount) triple; NormalizedPayee is derived and recomputed
// on every load rather than trusted from storage.
type Transaction struct {
	Payee           string          `csv:"payee"`
	NormalizedPayee string          `csv:"normalized_payee"`
	Date            Date            `csv:"date"`
	Amount          decimal.Decimal `csv:"amount"`
	Note            string          `csv:"note"`
	Category        string          `csv:"category"`
}

// Key returns the dedup identity key for this transaction.
func (t *Transaction) Key() string {
	date := ""
	if !t.Date.IsZero() {
		date = t.Date.Format(dateutils.DateLayoutISO)
	}
	return fmt.Sprintf("%s|%s|%s", t.Payee, date, t.Amount.String())
}

// AbsAmount returns the absolute value of the signed amount.
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// ParseAmount parses a string amount into a decimal.Decimal.
// It tolerates currency symbols, spaces and thousand separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, "'", "")

	// "1,234.56" carries thousand separators; "12,34" is a decimal comma.
	if strings.Contains(amount, ".") {
		amount = strings.ReplaceAll(amount, ",", "")
	} else {
		amount = strings.ReplaceAll(amount, ",", ".")
	}

	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return dec, nil
}
