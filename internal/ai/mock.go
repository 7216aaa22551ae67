package ai

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockCollaborator is a deterministic Collaborator for tests.
type MockCollaborator struct {
	// CategorizeFunc overrides Categorize when set.
	CategorizeFunc func(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error)
	// NormalizeBatchFunc overrides NormalizeBatch when set.
	NormalizeBatchFunc func(ctx context.Context, names []string) (map[string]string, error)

	// CategorizeCalls records the notes passed to Categorize.
	CategorizeCalls []string
	// NormalizeBatchCalls counts NormalizeBatch invocations.
	NormalizeBatchCalls int
}

// Categorize returns "Uncategorized" unless CategorizeFunc is set.
func (m *MockCollaborator) Categorize(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
	m.CategorizeCalls = append(m.CategorizeCalls, note)
	if m.CategorizeFunc != nil {
		return m.CategorizeFunc(ctx, description, amount, note)
	}
	return "Uncategorized", nil
}

// NormalizeBatch returns the identity mapping unless NormalizeBatchFunc is set.
func (m *MockCollaborator) NormalizeBatch(ctx context.Context, names []string) (map[string]string, error) {
	m.NormalizeBatchCalls++
	if m.NormalizeBatchFunc != nil {
		return m.NormalizeBatchFunc(ctx, names)
	}
	mapping := make(map[string]string, len(names))
	for _, n := range names {
		mapping[n] = n
	}
	return mapping, nil
}
