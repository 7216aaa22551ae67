// Package ingest reads raw bank statement CSV exports and remaps their fixed
// column layout onto the working transaction schema.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"bookkeeper/internal/models"
	"bookkeeper/internal/payee"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Statement exports carry eight positional columns; only date, payee and
// amount survive into the working schema.
const (
	colDetails = iota
	colDate
	colPayee
	colAmount
	colType
	colBalance
	colCheckNum
	colUnused
)

var requiredColumns = []struct {
	index int
	name  string
}{
	{colDate, "date"},
	{colPayee, "payee"},
	{colAmount, "amount"},
}

// ParseFile reads one statement CSV. A header row is optional: the first row
// is skipped when neither its date nor its amount column parses. Rows missing
// date, payee or amount after parsing are dropped; a file too narrow to hold
// a required column fails the whole batch with the column named.
func ParseFile(path string) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close statement file")
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading statement file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if isHeaderRow(records[0]) {
		records = records[1:]
	}

	// Width is judged over the data rows, not the header: a full-width header
	// over truncated rows is just as unusable as a narrow file.
	widest := 0
	for _, record := range records {
		if len(record) > widest {
			widest = len(record)
		}
	}
	if len(records) > 0 {
		for _, col := range requiredColumns {
			if widest <= col.index {
				return nil, fmt.Errorf("missing required column: %s", col.name)
			}
		}
	}

	var txns []models.Transaction
	var dropped int
	for _, record := range records {
		t, ok := parseRecord(record)
		if !ok {
			dropped++
			continue
		}
		txns = append(txns, t)
	}

	log.WithFields(logrus.Fields{
		"file":    path,
		"rows":    len(txns),
		"dropped": dropped,
	}).Info("Parsed statement file")
	return txns, nil
}

// ParseFiles concatenates the transactions of several statement files.
func ParseFiles(paths []string) ([]models.Transaction, error) {
	var all []models.Transaction
	for _, path := range paths {
		txns, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

func parseRecord(record []string) (models.Transaction, bool) {
	if len(record) <= colAmount {
		return models.Transaction{}, false
	}

	date := models.ParseDate(record[colDate])
	if date.IsZero() {
		return models.Transaction{}, false
	}
	raw := record[colPayee]
	if raw == "" {
		return models.Transaction{}, false
	}
	amount, err := models.ParseAmount(record[colAmount])
	if err != nil {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Payee:           raw,
		NormalizedPayee: payee.Normalize(raw),
		Date:            date,
		Amount:          amount,
	}, true
}

func isHeaderRow(record []string) bool {
	if len(record) <= colAmount {
		return false
	}
	if !models.ParseDate(record[colDate]).IsZero() {
		return false
	}
	if _, err := models.ParseAmount(record[colAmount]); err == nil {
		return false
	}
	return true
}
