package session

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/ai"
	"bookkeeper/internal/models"
	"bookkeeper/internal/payee"
	"bookkeeper/internal/store"
)

func newTxn(rawPayee, date, amount string) models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.Transaction{
		Payee:           rawPayee,
		NormalizedPayee: payee.Normalize(rawPayee),
		Date:            models.NewDate(d),
		Amount:          decimal.RequireFromString(amount),
	}
}

func newTestSession(t *testing.T, scope string, collab ai.Collaborator, answers []string) (*Session, *store.LedgerStore, *ScriptedPrompter, *bytes.Buffer) {
	t.Helper()
	s := store.NewLedgerStore(t.TempDir())
	prompter := &ScriptedPrompter{Answers: answers}
	var out bytes.Buffer
	sess := New(Options{
		Store:        s,
		Collaborator: collab,
		Prompter:     prompter,
		Scope:        scope,
		Out:          &out,
	})
	return sess, s, prompter, &out
}

func TestRun_CategorizesAndPersists(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Meals & Entertainment", nil
		},
	}
	sess, s, prompter, out := newTestSession(t, "", collab, []string{
		"Coffee with client", // note for the single vendor
		"",                   // accept suggested category
	})

	incoming := []models.Transaction{
		newTxn("STARBUCKS #123 SEATTLE", "2024-01-05", "-6.18"),
		newTxn("STARBUCKS #123 SEATTLE", "2024-02-05", "-7.25"),
	}
	require.NoError(t, sess.Run(context.Background(), incoming))

	saved, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, row := range saved {
		assert.Equal(t, "Coffee with client", row.Note)
		assert.Equal(t, "Meals & Entertainment", row.Category)
	}

	assert.Contains(t, out.String(), "2 new transactions need categorization.")
	assert.Contains(t, out.String(), "Payment summary:")
	assert.Len(t, prompter.Prompts, 2)
}

func TestRun_CategoryOverride(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Research & Development", nil
		},
	}
	sess, s, _, _ := newTestSession(t, "", collab, []string{
		"Dev tools subscription",
		"Software & Subscriptions", // operator overrides the suggestion
	})

	incoming := []models.Transaction{newTxn("GITHUB INC", "2024-01-10", "-19.00")}
	require.NoError(t, sess.Run(context.Background(), incoming))

	saved, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Software & Subscriptions", saved[0].Category)
}

func TestRun_PersonalScopeEmptyNoteShortcut(t *testing.T) {
	collab := &ai.MockCollaborator{}
	sess, s, _, _ := newTestSession(t, "personal", collab, []string{
		"", // empty note on personal scope: skip the model entirely
	})

	incoming := []models.Transaction{newTxn("LOCAL BAKERY", "2024-01-05", "-12.00")}
	require.NoError(t, sess.Run(context.Background(), incoming))

	saved, err := s.Load("personal")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, PersonalCategory, saved[0].Category)
	assert.Empty(t, saved[0].Note)
	assert.Empty(t, collab.CategorizeCalls)
}

func TestRun_PersonalPrefixShortcutAnyScope(t *testing.T) {
	collab := &ai.MockCollaborator{}
	sess, s, _, _ := newTestSession(t, "business", collab, []string{
		"p birthday gift",
	})

	incoming := []models.Transaction{newTxn("TOY STORE", "2024-01-05", "-30.00")}
	require.NoError(t, sess.Run(context.Background(), incoming))

	saved, err := s.Load("business")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, PersonalCategory, saved[0].Category)
	assert.Equal(t, "birthday gift", saved[0].Note)
	assert.Empty(t, collab.CategorizeCalls)
}

func TestRun_PropagatesToHistoryWithinAmountBand(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Software", nil
		},
	}
	sess, s, _, _ := newTestSession(t, "", collab, []string{
		"Editor license", "",
	})

	// History: one row in the new cluster's amount band, one far outside it.
	history := []models.Transaction{
		newTxn("JETBRAINS", "2023-06-01", "-14.50"),
		newTxn("JETBRAINS", "2023-07-01", "-649.00"),
	}
	require.NoError(t, s.Save("", history))

	incoming := []models.Transaction{
		newTxn("JETBRAINS", "2024-01-05", "-14.00"),
		newTxn("JETBRAINS", "2024-02-05", "-16.00"),
	}
	require.NoError(t, sess.Run(context.Background(), incoming))

	saved, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, saved, 4)

	byAmount := make(map[string]models.Transaction)
	for _, row := range saved {
		byAmount[row.Amount.String()] = row
	}
	assert.Equal(t, "Software", byAmount["-16"].Category)
	assert.Equal(t, "Software", byAmount["-14.5"].Category, "history row inside the cluster's amount range is relabeled")
	assert.Empty(t, byAmount["-649"].Category, "history row outside the band is untouched")
}

func TestRun_VendorResolutionCollapsesKeys(t *testing.T) {
	collab := &ai.MockCollaborator{
		NormalizeBatchFunc: func(ctx context.Context, names []string) (map[string]string, error) {
			mapping := make(map[string]string, len(names))
			for _, n := range names {
				mapping[n] = "STARBUCKS"
			}
			return mapping, nil
		},
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Meals", nil
		},
	}
	sess, s, prompter, _ := newTestSession(t, "", collab, []string{
		"Coffee", "",
	})

	incoming := []models.Transaction{
		newTxn("STARBUCKS STORE 00123", "2024-01-05", "-6.00"),
		newTxn("STARBUCKS STORE 00456", "2024-01-06", "-6.50"),
	}
	require.NoError(t, sess.Run(context.Background(), incoming))

	// Both garbled keys collapsed to one vendor: a single decision covers both.
	assert.Len(t, prompter.Prompts, 2)

	saved, err := s.Load("")
	require.NoError(t, err)
	require.Len(t, saved, 2)
}

func TestRun_ReRunIsIdempotent(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Meals", nil
		},
	}
	sess, s, _, _ := newTestSession(t, "", collab, []string{"Coffee", ""})

	incoming := []models.Transaction{newTxn("CAFE", "2024-01-05", "-6.00")}
	require.NoError(t, sess.Run(context.Background(), incoming))

	// Second run with the same statement: dedup leaves nothing to ask about.
	sess2, _, prompter2, out2 := newTestSession(t, "", collab, nil)
	sess2.store = s
	require.NoError(t, sess2.Run(context.Background(), incoming))

	assert.Contains(t, out2.String(), "0 new transactions need categorization.")
	assert.Empty(t, prompter2.Prompts)

	saved, err := s.Load("")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestRun_CategorizeFailureIsHardStop(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "", fmt.Errorf("model unreachable")
		},
	}
	sess, _, _, _ := newTestSession(t, "", collab, []string{"Coffee"})

	incoming := []models.Transaction{newTxn("CAFE", "2024-01-05", "-6.00")}
	err := sess.Run(context.Background(), incoming)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unreachable")
}

func TestRun_WritesSummaryTable(t *testing.T) {
	collab := &ai.MockCollaborator{
		CategorizeFunc: func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
			return "Meals", nil
		},
	}
	sess, s, _, _ := newTestSession(t, "", collab, []string{"Lunch", ""})

	incoming := []models.Transaction{newTxn("DELI", "2024-01-05", "-10.00")}
	require.NoError(t, sess.Run(context.Background(), incoming))

	assert.FileExists(t, s.SummaryPath(""))
}
