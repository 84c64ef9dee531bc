// =============================================================================
// Uruguay Card Payments - Run
// =============================================================================
//
// This file holds the action of the root command: run the pipeline once and
// print what was saved.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uycards/annual-summary/internal/pipeline"
)

// runPipeline is the main function for the root command.
func runPipeline(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	log.Debug().
		Str("input", cfg.InputPath).
		Str("processed_dir", cfg.ProcessedDir).
		Str("figures_dir", cfg.FiguresDir).
		Bool("dry_run", dryRun).
		Msg("Starting run")

	result, err := pipeline.New(cfg, log, pipeline.Options{DryRun: dryRun}).Run()
	if err != nil {
		return err
	}

	// =========================================================================
	// SUMMARY
	// =========================================================================

	if dryRun {
		fmt.Fprintln(out, "Dry run complete, nothing written")
	} else {
		fmt.Fprintln(out, "Done")
	}
	for _, path := range result.Tables {
		fmt.Fprintf(out, "- Saved: %s\n", path)
	}
	for _, path := range result.Figures {
		fmt.Fprintf(out, "- Saved: %s\n", path)
	}

	fmt.Fprintf(out, "Latest full year: %d\n", result.LatestFullYear)
	fmt.Fprintf(out, "Rows kept:        %d of %d\n", result.Stats.RowsKept, result.Stats.RowsRead)
	fmt.Fprintf(out, "Time elapsed:     %s\n", result.Stats.ProcessingTime)

	return nil
}
