// Package resolver collapses near-duplicate normalized payee keys into one
// canonical vendor name per group, using the categorization collaborator.
package resolver

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"bookkeeper/internal/ai"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Resolver maps normalized payee keys to canonical vendor names.
type Resolver struct {
	collaborator ai.Collaborator
}

// New creates a Resolver backed by the given collaborator.
func New(collaborator ai.Collaborator) *Resolver {
	return &Resolver{collaborator: collaborator}
}

// Resolve returns a canonical-name mapping for the full set of keys seen in
// one run. Every input key is present in the result; keys the collaborator
// did not touch (or mapped to nothing) map to themselves. A failed or
// malformed collaborator response degrades to the identity mapping rather
// than blocking the run.
func (r *Resolver) Resolve(ctx context.Context, keys []string) map[string]string {
	unique := dedupe(keys)
	mapping := identity(unique)
	if len(unique) == 0 || r.collaborator == nil {
		return mapping
	}

	resolved, err := r.collaborator.NormalizeBatch(ctx, unique)
	if err != nil {
		log.WithError(err).Warn("Vendor name resolution failed, using identity mapping")
		return mapping
	}

	for key, canonical := range resolved {
		if _, known := mapping[key]; known && canonical != "" {
			mapping[key] = canonical
		}
	}
	return mapping
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var unique []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, k)
	}
	sort.Strings(unique)
	return unique
}

func identity(keys []string) map[string]string {
	mapping := make(map[string]string, len(keys))
	for _, k := range keys {
		mapping[k] = k
	}
	return mapping
}
