// Package ingest handles the interactive statement ingestion command
package ingest

import (
	"github.com/spf13/cobra"

	"bookkeeper/cmd/root"
	"bookkeeper/internal/ingest"
	"bookkeeper/internal/session"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest bank statement CSVs and categorize new transactions",
	Long: `Ingest one or more raw bank statement CSV files, deduplicate against the
existing ledger, and run the interactive categorization session over the new
transactions. The ledger table is saved after every decision.

Example:
  bookkeeper ingest -a business statements/january.csv statements/february.csv`,
	Run: ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Ingest command called")

	paths := append([]string{}, root.SharedFlags.Input...)
	paths = append(paths, args...)
	if len(paths) == 0 {
		root.Log.Fatal("At least one statement file is required (positional or --input)")
	}

	txns, err := ingest.ParseFiles(paths)
	if err != nil {
		root.Log.Fatalf("Error parsing statement files: %v", err)
	}
	root.Log.WithField("count", len(txns)).Info("Parsed statement transactions")

	collaborator, err := root.NewCollaborator()
	if err != nil {
		root.Log.Fatalf("Error loading categorization examples: %v", err)
	}

	sess := session.New(session.Options{
		Store:          root.NewStore(),
		Collaborator:   collaborator,
		Prompter:       session.NewTerminalPrompter(),
		Scope:          root.SharedFlags.Account,
		AmountRatio:    root.Cfg.Clustering.AmountRatio,
		OutlierStdDevs: root.Cfg.Clustering.OutlierStdDevs,
		Logger:         root.Log,
	})
	if err := sess.Run(cmd.Context(), txns); err != nil {
		root.Log.Fatalf("Categorization session failed: %v", err)
	}
}
