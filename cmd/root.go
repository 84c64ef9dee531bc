// =============================================================================
// Uruguay Card Payments - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Run without a
// subcommand, it executes the full annual summary pipeline.
//
// COBRA CLI STRUCTURE:
//   rootCmd (uycards)          run the pipeline
//   ├── validateCmd (uycards validate)
//   └── versionCmd (uycards version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file, or the built-in defaults
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/uycards/annual-summary/internal/config"
	"github.com/uycards/annual-summary/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means defaults.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// dryRun computes everything but writes no files.
var dryRun bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "uycards",
	Short: "Annual summary of Uruguay debit and credit card payments",
	Long: `uycards reads the semester-level card payment export, cleans it, and
produces annual tables, growth rates, and charts.

Outputs:
  data/processed/annual_summary.csv
  data/processed/annual_by_method.csv
  data/processed/cagr_summary.csv
  figures/*.png

Example Usage:
  uycards                        # Run with the default paths
  uycards --config ./uycards.yaml
  uycards --dry-run -v           # Compute and log, write nothing
  uycards validate               # Check the input without summarizing`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (default: built-in paths)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Compute the summary without writing tables or figures",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads the configuration and builds the logger for a command.
func setup() (*config.MainConfig, zerolog.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	return cfg, logger.New(level), nil
}
