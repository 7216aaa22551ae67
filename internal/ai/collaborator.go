// Package ai provides the categorization collaborator: the narrow interface
// the core consumes, a Gemini-backed implementation, and the few-shot example
// set injected into categorization prompts.
package ai

import (
	"context"

	"github.com/shopspring/decimal"
)

// Collaborator is the contract the core requires from a language model.
// Both methods are blocking network calls; Categorize failures propagate to
// the operator, while NormalizeBatch failures are degraded by the caller to
// an identity mapping.
type Collaborator interface {
	// Categorize returns a short bookkeeping category label for a vendor's
	// display name, a representative amount, and a human-written note.
	Categorize(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error)

	// NormalizeBatch collapses near-duplicate vendor keys into one canonical
	// name per group. Keys absent from the result map to themselves.
	NormalizeBatch(ctx context.Context, names []string) (map[string]string, error)
}
