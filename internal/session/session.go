// Package session runs the interactive categorization loop: group new
// transactions by resolved vendor, band each vendor by amount, ask the
// operator for a description, suggest a category, and propagate the decision
// through the ledger with a save after every cluster.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bookkeeper/internal/ai"
	"bookkeeper/internal/cluster"
	"bookkeeper/internal/ledger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/resolver"
	"bookkeeper/internal/store"
)

// PersonalCategory is assigned by the personal-expense shortcut.
const PersonalCategory = "Personal"

// personalPrefix marks a note as personal on any account scope.
const personalPrefix = "p "

// Session wires the stores and collaborators for one categorization run.
type Session struct {
	store          *store.LedgerStore
	collaborator   ai.Collaborator
	resolver       *resolver.Resolver
	prompter       Prompter
	scope          string
	ratio          decimal.Decimal
	outlierStdDevs float64
	out            io.Writer
	log            *logrus.Logger
}

// Options configures a Session.
type Options struct {
	Store        *store.LedgerStore
	Collaborator ai.Collaborator
	Prompter     Prompter
	// Scope selects the account table ("business", "personal", or empty).
	Scope string
	// AmountRatio is the cluster band ratio; zero means the default.
	AmountRatio float64
	// OutlierStdDevs flags unusual payments in the histogram; zero disables.
	OutlierStdDevs float64
	// Out receives the operator-facing display; defaults to stdout.
	Out    io.Writer
	Logger *logrus.Logger
}

// New creates a Session.
func New(opts Options) *Session {
	ratio := cluster.DefaultRatio
	if opts.AmountRatio > 0 {
		ratio = decimal.NewFromFloat(opts.AmountRatio)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		store:          opts.Store,
		collaborator:   opts.Collaborator,
		resolver:       resolver.New(opts.Collaborator),
		prompter:       opts.Prompter,
		scope:          opts.Scope,
		ratio:          ratio,
		outlierStdDevs: opts.OutlierStdDevs,
		out:            out,
		log:            logger,
	}
}

// Run executes one full categorization session over newly ingested
// transactions. The ledger is saved after every vendor/cluster decision, so
// an interrupted run resumes safely: the dedup key prevents re-processing.
func (s *Session) Run(ctx context.Context, incoming []models.Transaction) error {
	existing, err := s.store.Load(s.scope)
	if err != nil {
		return fmt.Errorf("error loading ledger: %w", err)
	}

	mapping := s.resolver.Resolve(ctx, collectKeys(existing, incoming))
	ledger.ApplyVendorMapping(existing, mapping)
	ledger.ApplyVendorMapping(incoming, mapping)

	fresh := ledger.Dedup(existing, incoming)
	fmt.Fprintf(s.out, "%d new transactions need categorization.\n", len(fresh))

	for _, vendor := range vendorKeys(fresh) {
		group := filterByVendor(fresh, vendor)
		for _, sub := range cluster.Split(group, s.ratio) {
			if len(sub) == 0 {
				continue
			}
			if err := s.processCluster(ctx, &existing, vendor, sub); err != nil {
				return err
			}
		}
	}

	if err := s.store.SaveSummary(s.scope, ledger.Summarize(existing)); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	return nil
}

func (s *Session) processCluster(ctx context.Context, existing *[]models.Transaction, vendor string, sub []models.Transaction) error {
	s.printHistogram(vendor, sub)

	note, category, err := s.decide(ctx, vendor, sub)
	if err != nil {
		return err
	}

	for i := range sub {
		sub[i].Note = note
		sub[i].Category = category
	}

	*existing = ledger.Append(*existing, sub)
	*existing = ledger.Propagate(*existing, vendor, note, category, ledger.RangeOf(sub))

	if err := s.store.Save(s.scope, *existing); err != nil {
		return fmt.Errorf("error saving ledger: %w", err)
	}

	color.New(color.FgGreen).Fprintf(s.out, "Saved %d transaction(s) for '%s' as '%s'\n", len(sub), vendor, category)
	s.log.WithFields(logrus.Fields{
		"vendor":   vendor,
		"count":    len(sub),
		"category": category,
	}).Debug("Cluster categorized and saved")
	return nil
}

// decide collects the note and category for one cluster. Empty input on the
// personal scope, or a "p "-prefixed note on any scope, short-circuits to
// the Personal category without calling the model. Model failures propagate:
// no categorization can proceed without the collaborator.
func (s *Session) decide(ctx context.Context, vendor string, sub []models.Transaction) (string, string, error) {
	prompt := "Describe the expense: "
	if s.scope == "personal" {
		prompt = "Describe the expense or press enter if personal: "
	}
	note, err := s.prompter.Ask(prompt)
	if err != nil {
		return "", "", err
	}

	if note == "" && s.scope == "personal" {
		return "", PersonalCategory, nil
	}
	if strings.HasPrefix(strings.ToLower(note), personalPrefix) {
		return strings.TrimSpace(note[len(personalPrefix):]), PersonalCategory, nil
	}

	suggested, err := s.collaborator.Categorize(ctx, vendor, meanAmount(sub), note)
	if err != nil {
		return "", "", fmt.Errorf("categorization failed for '%s': %w", vendor, err)
	}

	override, err := s.prompter.Ask(fmt.Sprintf("Suggested category '%s'. Press enter to accept or type a replacement: ", suggested))
	if err != nil {
		return "", "", err
	}
	if override != "" {
		return note, override, nil
	}
	return note, suggested, nil
}

// printHistogram shows the cluster's payment distribution before asking for a
// description, flagging amounts far from the cluster mean.
func (s *Session) printHistogram(vendor string, sub []models.Transaction) {
	fmt.Fprintln(s.out)
	color.New(color.FgCyan, color.Bold).Fprintf(s.out, "Processing '%s' (%d transactions)\n", vendor, len(sub))
	fmt.Fprintln(s.out, "Payment summary:")

	counts := make(map[string]int)
	var amounts []decimal.Decimal
	for _, t := range sub {
		key := t.Amount.StringFixed(2)
		if counts[key] == 0 {
			amounts = append(amounts, t.Amount)
		}
		counts[key]++
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	outliers := cluster.Outliers(sub, s.outlierStdDevs)
	for _, amt := range amounts {
		key := amt.StringFixed(2)
		line := fmt.Sprintf("  %d payment(s) of $%s", counts[key], key)
		if outliers[amt.Abs().String()] {
			line += "  (unusual amount)"
		}
		fmt.Fprintln(s.out, line)
	}
}

func meanAmount(txns []models.Transaction) decimal.Decimal {
	if len(txns) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(txns))))
}

func collectKeys(tables ...[]models.Transaction) []string {
	var keys []string
	for _, table := range tables {
		for _, t := range table {
			if t.NormalizedPayee != "" {
				keys = append(keys, t.NormalizedPayee)
			}
		}
	}
	return keys
}

func vendorKeys(txns []models.Transaction) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, t := range txns {
		if !seen[t.NormalizedPayee] {
			seen[t.NormalizedPayee] = true
			keys = append(keys, t.NormalizedPayee)
		}
	}
	sort.Strings(keys)
	return keys
}

func filterByVendor(txns []models.Transaction, vendor string) []models.Transaction {
	var group []models.Transaction
	for _, t := range txns {
		if t.NormalizedPayee == vendor {
			group = append(group, t)
		}
	}
	return group
}
