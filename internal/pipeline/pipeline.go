// =============================================================================
// Uruguay Card Payments - Pipeline Module
// =============================================================================
//
// This module orchestrates one run of the annual summary, from the raw
// semester export to the derived tables and figures.
//
// PIPELINE:
//   1. Ensure the output directories exist
//   2. Check the input file exists
//   3. Load the CSV (or XLSX) input
//   4. Normalise headers and require the input columns
//   5. Clean and coerce values into records
//   6. Keep Debit Card / Credit Card rows
//   7. Drop rows whose transaction count is not positive
//   8. Summarize: completeness, aggregates, wide table, growth rates
//   9. Write the three CSV tables
//  10. Render the figures
//
// A dry run stops after step 8 and writes nothing.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uycards/annual-summary/internal/analysis"
	"github.com/uycards/annual-summary/internal/charts"
	"github.com/uycards/annual-summary/internal/cleaner"
	"github.com/uycards/annual-summary/internal/config"
	"github.com/uycards/annual-summary/internal/csvparser"
	"github.com/uycards/annual-summary/internal/csvwriter"
	"github.com/uycards/annual-summary/internal/types"
	"github.com/uycards/annual-summary/internal/validation"
	"github.com/uycards/annual-summary/internal/xlsxparser"
	"github.com/uycards/annual-summary/pkg/utils"
)

var (
	// ErrInputNotFound is returned when the configured input file is absent.
	ErrInputNotFound = errors.New("input file not found")

	// ErrNoYears is returned when no kept row carries a valid year.
	ErrNoYears = errors.New("no row has a valid year")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// InputFile is the path that was read.
	InputFile string

	// Tables lists the CSV files written, in order. Empty on a dry run.
	Tables []string

	// Figures lists the PNG files written, in order. Empty on a dry run.
	Figures []string

	// LatestFullYear is the most recent year with a second semester, or the
	// most recent year when none has one.
	LatestFullYear int

	// Summary holds the derived tables.
	Summary *Summary

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// RowsRead is the number of data rows in the input.
	RowsRead int

	// PaymentMethods lists the payment_method values found in the input, in
	// first-seen order, before filtering.
	PaymentMethods []string

	// RowsFiltered is the number of rows whose payment method is not tracked.
	RowsFiltered int

	// RowsDropped is the number of tracked rows with a non-positive or
	// unparseable transaction count.
	RowsDropped int

	// RowsKept is the number of rows that reach aggregation.
	RowsKept int

	// SuspiciousAmounts counts amounts whose decimal separator is probably
	// not a thousands separator.
	SuspiciousAmounts int

	// UnparseableAmounts and UnparseableCounts count values that became NaN.
	UnparseableAmounts int
	UnparseableCounts  int

	// Years is the number of distinct years in the annual table.
	Years int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// Summary holds everything derived from the cleaned records.
type Summary struct {
	Completeness   *analysis.Completeness
	LatestFullYear int
	Aggregates     []types.AnnualAggregate
	Annual         *types.AnnualTable
	GrowthRates    []types.CAGRRecord
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Options changes how a run behaves.
type Options struct {
	// DryRun computes everything but writes no files.
	DryRun bool
}

// Pipeline runs the annual summary for one configuration.
type Pipeline struct {
	cfg    *config.MainConfig
	logger zerolog.Logger
	opts   Options
	files  *utils.FileManager
}

// New creates a new Pipeline instance.
//
// PARAMETERS:
//   - cfg: The loaded configuration (see config.LoadMainConfig).
//   - logger: The base logger; the run id is added to it.
//   - opts: Run options.
func New(cfg *config.MainConfig, logger zerolog.Logger, opts Options) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		opts:   opts,
		files:  utils.NewFileManager(cfg.ProcessedDir, cfg.FiguresDir),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the full pipeline.
//
// RETURNS:
//   - The result of the run.
//   - An error for a missing input, missing columns, no tracked rows, no
//     positive counts, or any I/O failure.
func (p *Pipeline) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{
		RunID:     uuid.New().String(),
		InputFile: p.cfg.InputPath,
	}
	log := p.logger.With().Str("run_id", result.RunID).Logger()

	// =========================================================================
	// STEP 1: OUTPUT DIRECTORIES
	// =========================================================================

	if !p.opts.DryRun {
		if err := p.files.EnsureDirectories(); err != nil {
			return nil, err
		}
	}

	// =========================================================================
	// STEPS 2-7: LOAD, CLEAN, FILTER
	// =========================================================================

	records, stats, err := p.prepare(log)
	if err != nil {
		return nil, err
	}
	result.Stats = stats

	// =========================================================================
	// STEP 8: SUMMARIZE
	// =========================================================================

	summary, err := Summarize(records)
	if err != nil {
		return nil, err
	}
	result.Summary = summary
	result.LatestFullYear = summary.LatestFullYear
	result.Stats.Years = len(summary.Annual.Rows)

	log.Info().
		Int("latest_full_year", summary.LatestFullYear).
		Int("years", result.Stats.Years).
		Msg("Summarized annual data")

	if p.opts.DryRun {
		result.Stats.ProcessingTime = time.Since(startTime)
		log.Info().Msg("Dry run, no files written")
		return result, nil
	}

	// =========================================================================
	// STEP 9: WRITE TABLES
	// =========================================================================

	tables, err := p.writeTables(log, summary)
	result.Tables = tables
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 10: RENDER FIGURES
	// =========================================================================

	renderer := charts.NewRenderer(p.cfg.FiguresDir, p.cfg.Watermark, p.cfg.DPI)
	window := p.cfg.PostPandemic

	figures, err := renderer.RenderAll(charts.Input{
		Annual:         summary.Annual,
		LatestFullYear: summary.LatestFullYear,
		Completeness:   summary.Completeness,
		Semesters:      analysis.SemesterAmounts(records, window.FromYear, window.ToYear),
		SemesterFrom:   window.FromYear,
		SemesterTo:     window.ToYear,
	})
	result.Figures = figures
	if err != nil {
		return result, fmt.Errorf("failed to render figures: %w", err)
	}
	for _, figure := range figures {
		log.Debug().Str("file", figure).Msg("Rendered figure")
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	log.Info().
		Int("tables", len(result.Tables)).
		Int("figures", len(result.Figures)).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Run complete")

	return result, nil
}

// Validate loads, cleans and filters the input without summarizing or
// writing anything.
func (p *Pipeline) Validate() (ProcessingStats, error) {
	records, stats, err := p.prepare(p.logger)
	if err != nil {
		return stats, err
	}
	stats.Years = len(analysis.NewCompleteness(records).Years())
	return stats, nil
}

// =============================================================================
// STAGES
// =============================================================================

// prepare runs steps 2 to 7 and returns the records ready for aggregation.
func (p *Pipeline) prepare(log zerolog.Logger) ([]types.Record, ProcessingStats, error) {
	var stats ProcessingStats

	if !utils.FileExists(p.cfg.InputPath) {
		return nil, stats, fmt.Errorf("%w: %s", ErrInputNotFound, p.cfg.InputPath)
	}

	raw, err := loadTable(p.cfg.InputPath, p.cfg.CSVSettings)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load input: %w", err)
	}
	stats.RowsRead = raw.RowCount()
	log.Info().Str("file", p.cfg.InputPath).Int("rows", stats.RowsRead).Msg("Loaded input")

	table := cleaner.NormalizeTable(raw)
	if err := validation.RequireColumns(table.Headers); err != nil {
		return nil, stats, err
	}

	stats.PaymentMethods = csvparser.GetUniqueValues(table, cleaner.ColumnPaymentMethod)
	log.Debug().Strs("payment_methods", stats.PaymentMethods).Msg("Payment methods in input")

	transformer, err := cleaner.NewTransformer(p.cfg.CleaningRules)
	if err != nil {
		return nil, stats, fmt.Errorf("invalid cleaning rules: %w", err)
	}

	records, cleanStats, err := cleaner.Clean(table, transformer)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to clean input: %w", err)
	}
	stats.SuspiciousAmounts = cleanStats.SuspiciousAmounts
	stats.UnparseableAmounts = cleanStats.UnparseableAmounts
	stats.UnparseableCounts = cleanStats.UnparseableCounts

	if cleanStats.SuspiciousAmounts > 0 {
		log.Warn().
			Int("rows", cleanStats.SuspiciousAmounts).
			Msg("amount_million values look like decimals; dots are removed as thousands separators")
	}

	tracked, err := validation.FilterPaymentMethods(records)
	if err != nil {
		return nil, stats, err
	}
	stats.RowsFiltered = len(records) - len(tracked)

	kept, dropped := validation.DropNonPositiveCounts(tracked)
	stats.RowsDropped = dropped
	stats.RowsKept = len(kept)
	log.Debug().Int("dropped", dropped).Msg("Dropped rows without a positive transaction count")

	if len(kept) == 0 {
		return nil, stats, validation.ErrNoPositiveCounts
	}

	return kept, stats, nil
}

// loadTable picks the loader by file extension.
func loadTable(path string, settings config.CSVSettings) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Parse(path)
	}
	return csvparser.Parse(path, settings)
}

// Summarize derives the annual tables from cleaned records. It performs no
// I/O.
//
// RETURNS:
//   - The summary.
//   - ErrNoYears when no record carries a year.
func Summarize(records []types.Record) (*Summary, error) {
	completeness := analysis.NewCompleteness(records)
	latest, ok := completeness.LatestFullYear()
	if !ok {
		return nil, ErrNoYears
	}

	aggregates := analysis.Aggregate(records)
	annual := analysis.Pivot(aggregates)

	return &Summary{
		Completeness:   completeness,
		LatestFullYear: latest,
		Aggregates:     aggregates,
		Annual:         annual,
		GrowthRates:    analysis.GrowthRates(annual, latest),
	}, nil
}

func (p *Pipeline) writeTables(log zerolog.Logger, summary *Summary) ([]string, error) {
	var written []string

	steps := []struct {
		path  string
		write func(string) error
	}{
		{p.cfg.AnnualSummaryPath(), func(path string) error {
			return csvwriter.WriteAnnualSummary(path, summary.Annual)
		}},
		{p.cfg.AnnualByMethodPath(), func(path string) error {
			return csvwriter.WriteAnnualByMethod(path, summary.Aggregates)
		}},
		{p.cfg.CAGRSummaryPath(), func(path string) error {
			return csvwriter.WriteCAGR(path, summary.GrowthRates)
		}},
	}

	for _, step := range steps {
		if err := step.write(step.path); err != nil {
			return written, err
		}
		written = append(written, step.path)

		size, _ := utils.GetFileSize(step.path)
		log.Info().Str("file", step.path).Int64("bytes", size).Msg("Saved table")
	}

	return written, nil
}
