// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bookkeeper/internal/ai"
	"bookkeeper/internal/config"
	"bookkeeper/internal/ingest"
	"bookkeeper/internal/resolver"
	"bookkeeper/internal/store"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Account string
	Input   []string
	Output  string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bookkeeper",
		Short: "A CLI tool to ingest bank statements and categorize expenses.",
		Long: `bookkeeper ingests raw bank statement CSV files, groups transactions by
vendor, and walks through each vendor interactively: you describe the expense,
a Gemini model suggests an accounting category, and the decision is propagated
across the historical ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bookkeeper!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Errorf("Invalid configuration: %v", err)
				os.Exit(1)
			}
			Cfg = cfg
			Log = config.ConfigureLogging(Cfg)

			// Fan the configured logger out to the packages that log
			store.SetLogger(Log)
			resolver.SetLogger(Log)
			ingest.SetLogger(Log)
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Account, "account", "a", "", "Account scope (e.g. business or personal); empty uses the default table")
	Cmd.PersistentFlags().StringSliceVarP(&SharedFlags.Input, "input", "i", nil, "Input statement CSV file (repeatable)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Data directory for ledger and summary tables (overrides config)")
}

// NewStore builds the ledger store from configuration and flags.
func NewStore() *store.LedgerStore {
	dataDir := Cfg.Data.Directory
	if SharedFlags.Output != "" {
		dataDir = SharedFlags.Output
	}
	s := store.NewLedgerStore(dataDir)
	s.Delimiter = []rune(Cfg.CSV.Delimiter)[0]
	return s
}

// NewCollaborator builds the Gemini collaborator from configuration.
func NewCollaborator() (*ai.GeminiClient, error) {
	examples, err := ai.LoadExamples(Cfg.AI.ExamplesFile)
	if err != nil {
		return nil, err
	}
	return ai.NewGeminiClient(Cfg.AI.APIKey, Cfg.AI.Model, examples, Log), nil
}
