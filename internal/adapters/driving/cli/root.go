// Package cli provides the scoperag command-line interface built on cobra.
// It is a driving adapter: commands translate flags and arguments into
// calls on the core services.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/ai"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
	"github.com/custodia-labs/scoperag/internal/core/services"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// version is set at build time via -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	configDir string
	verbose   bool
	noConfig  bool
)

// settingsService is opened from the config flags before any command runs.
// Tests assign it directly.
var settingsService driving.SettingsService

var rootCmd = &cobra.Command{
	Use:   "scoperag",
	Short: "Answer questions from a Q&A corpus",
	Long: `scoperag answers natural-language questions from a plain-text corpus of
question/answer pairs using exact nearest-neighbour search over embeddings.

The corpus is a text file of blocks separated by blank lines:

  Q: When are meetings?
  A: Every Tuesday at 6pm.

Start the HTTP API with 'scoperag serve', ask from the shell with
'scoperag query', or explore interactively with 'scoperag tui'.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.scoperag)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and use defaults")
}

// Execute loads .env, then runs the root command.
func Execute() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return rootCmd.Execute()
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if settingsService != nil {
		return nil
	}

	store, err := openConfigStore()
	if err != nil {
		return err
	}
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

func openConfigStore() (driven.ConfigStore, error) {
	if noConfig {
		logger.Debug("using in-memory config")
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return store, nil
}
