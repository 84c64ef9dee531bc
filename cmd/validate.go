// =============================================================================
// Uruguay Card Payments - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   uycards validate [--config file]
//
// Loads, cleans and filters the input exactly as a run would, then prints the
// row counts. Nothing is written.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uycards/annual-summary/internal/pipeline"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the input file without writing outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	stats, err := pipeline.New(cfg, log, pipeline.Options{DryRun: true}).Validate()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Input:               %s\n", cfg.InputPath)
	fmt.Fprintf(out, "Rows read:           %d\n", stats.RowsRead)
	fmt.Fprintf(out, "Payment methods:     %s\n", strings.Join(stats.PaymentMethods, ", "))
	fmt.Fprintf(out, "Other methods:       %d\n", stats.RowsFiltered)
	fmt.Fprintf(out, "Non-positive counts: %d\n", stats.RowsDropped)
	fmt.Fprintf(out, "Rows kept:           %d\n", stats.RowsKept)
	fmt.Fprintf(out, "Years:               %d\n", stats.Years)
	if stats.SuspiciousAmounts > 0 {
		fmt.Fprintf(out, "Suspicious amounts:  %d\n", stats.SuspiciousAmounts)
	}
	fmt.Fprintln(out, "Input is valid")

	return nil
}
