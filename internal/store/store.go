// Package store persists the categorized transaction table and the derived
// category summary, one CSV file per account scope.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"bookkeeper/internal/fileutils"
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

// LedgerStore manages the per-scope ledger and summary CSV files.
type LedgerStore struct {
	DataDir   string
	Delimiter rune
}

// NewLedgerStore creates a store rooted at dataDir.
func NewLedgerStore(dataDir string) *LedgerStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &LedgerStore{DataDir: dataDir, Delimiter: ','}
}

// LedgerPath returns the ledger table path for an account scope.
// An empty scope uses the default table.
func (s *LedgerStore) LedgerPath(scope string) string {
	if scope == "" {
		return filepath.Join(s.DataDir, "output_table.csv")
	}
	return filepath.Join(s.DataDir, fmt.Sprintf("output_table_%s.csv", scope))
}

// SummaryPath returns the summary table path for an account scope.
func (s *LedgerStore) SummaryPath(scope string) string {
	if scope == "" {
		return filepath.Join(s.DataDir, "summary_table.csv")
	}
	return filepath.Join(s.DataDir, fmt.Sprintf("summary_table_%s.csv", scope))
}

// Load reads the ledger table for a scope. A missing or unparseable file is
// not an error: it yields an empty table with the canonical schema. The
// normalized payee column is derived data and is recomputed on every load
// rather than trusted from storage.
func (s *LedgerStore) Load(scope string) ([]models.Transaction, error) {
	path := s.LedgerPath(scope)
	if !fileutils.FileExists(path) {
		log.WithField("file", path).Debug("No existing ledger table, starting empty")
		return []models.Transaction{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger table: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ledger file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = s.Delimiter

	var rows []models.Transaction
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		log.WithError(err).WithField("file", path).
			Warn("Ledger table unreadable, treating as empty")
		return []models.Transaction{}, nil
	}

	for i := range rows {
		rows[i].NormalizedPayee = payee.Normalize(rows[i].Payee)
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"count": len(rows),
	}).Debug("Loaded ledger table")
	return rows, nil
}

// Save writes the full ledger table for a scope. Called after every
// categorization decision so partial progress survives interruption.
func (s *LedgerStore) Save(scope string, txns []models.Transaction) error {
	return s.writeCSV(s.LedgerPath(scope), &txns, len(txns))
}

// SaveSummary regenerates the category summary table for a scope.
func (s *LedgerStore) SaveSummary(scope string, summaries []models.CategorySummary) error {
	return s.writeCSV(s.SummaryPath(scope), &summaries, len(summaries))
}

func (s *LedgerStore) writeCSV(path string, rows interface{}, count int) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	writer := csv.NewWriter(file)
	writer.Comma = s.Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"count": count,
	}).Debug("Wrote CSV file")
	return nil
}
