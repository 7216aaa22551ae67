package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/models"
)

func sampleTxn(rawPayee, date, amount string) models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.Transaction{
		Payee:  rawPayee,
		Date:   models.NewDate(d),
		Amount: decimal.RequireFromString(amount),
	}
}

func TestLoad_MissingFileYieldsEmptyTable(t *testing.T) {
	s := NewLedgerStore(t.TempDir())
	rows, err := s.Load("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	txns := []models.Transaction{
		sampleTxn("STARBUCKS #123 SEATTLE", "2024-01-05", "-6.18"),
	}
	txns[0].Note = "Coffee"
	txns[0].Category = "Meals"

	require.NoError(t, s.Save("", txns))

	loaded, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "STARBUCKS #123 SEATTLE", loaded[0].Payee)
	assert.Equal(t, "Coffee", loaded[0].Note)
	assert.Equal(t, "Meals", loaded[0].Category)
	assert.True(t, loaded[0].Amount.Equal(decimal.RequireFromString("-6.18")))
	assert.Equal(t, "2024-01-05", loaded[0].Date.Format("2006-01-02"))
}

func TestSaveAndLoad_CustomDelimiter(t *testing.T) {
	s := NewLedgerStore(t.TempDir())
	s.Delimiter = ';'

	txns := []models.Transaction{
		sampleTxn("STARBUCKS #123", "2024-01-05", "-6.18"),
	}
	require.NoError(t, s.Save("", txns))

	// The configured delimiter must reach the file.
	data, err := os.ReadFile(s.LedgerPath(""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "payee;normalized_payee;"))

	// Loading must read with the same delimiter the save used.
	loaded, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "STARBUCKS #123", loaded[0].Payee)
	assert.Equal(t, "-6.18", loaded[0].Amount.StringFixed(2))
}

func TestLoad_RecomputesNormalizedPayee(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	txns := []models.Transaction{
		sampleTxn("AMZN Digital*GM3C83WE 888-802-3080 WA        09/30", "2024-01-05", "-16.99"),
	}
	// A stale normalized value on disk must not be trusted.
	txns[0].NormalizedPayee = "WRONG VALUE"
	require.NoError(t, s.Save("", txns))

	loaded, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "AMZN DIGITAL", loaded[0].NormalizedPayee)
}

func TestAccountScopeIsolation(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	business := []models.Transaction{sampleTxn("BizCo", "2024-01-01", "100")}
	personal := []models.Transaction{sampleTxn("Home", "2024-02-01", "200")}

	require.NoError(t, s.Save("business", business))
	require.NoError(t, s.Save("personal", personal))

	loadedBusiness, err := s.Load("business")
	require.NoError(t, err)
	loadedPersonal, err := s.Load("personal")
	require.NoError(t, err)

	require.Len(t, loadedBusiness, 1)
	require.Len(t, loadedPersonal, 1)
	assert.Equal(t, "BizCo", loadedBusiness[0].Payee)
	assert.Equal(t, "Home", loadedPersonal[0].Payee)
}

func TestLoad_UnreadableTableTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewLedgerStore(dir)

	path := s.LedgerPath("")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("not,a\nvalid\"csv"), 0600))

	rows, err := s.Load("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveSummary(t *testing.T) {
	dir := t.TempDir()
	s := NewLedgerStore(dir)

	summaries := []models.CategorySummary{
		{Category: "Meals", TotalAmount: decimal.RequireFromString("30")},
		{Category: "Office", TotalAmount: decimal.RequireFromString("30")},
	}
	require.NoError(t, s.SaveSummary("business", summaries))

	data, err := os.ReadFile(s.SummaryPath("business"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "category,total_amount"))
	assert.Contains(t, content, "Meals,30")
	assert.Contains(t, content, "Office,30")
}
