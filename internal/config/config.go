// =============================================================================
// Uruguay Card Payments - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration for the annual summary
// pipeline. Every setting has a default, and the defaults reproduce the
// fixed layout the tool has always used:
//
//   data/processed/uruguay_payment_trends.csv   (input)
//   data/processed/*.csv                        (derived tables)
//   figures/*.png                               (charts)
//
// A configuration file only needs the keys it wants to change.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// OUTPUT FILE NAMES
// =============================================================================

const (
	AnnualSummaryFile  = "annual_summary.csv"
	AnnualByMethodFile = "annual_by_method.csv"
	CAGRSummaryFile    = "cagr_summary.csv"
)

// DefaultWatermark is the text drawn across every chart.
const DefaultWatermark = "Lucas Ortiz Gómez"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the pipeline configuration.
type MainConfig struct {
	// =========================================================================
	// PATHS
	// =========================================================================

	// InputPath is the semicolon-delimited CSV (or .xlsx workbook) to read.
	// Default: "data/processed/uruguay_payment_trends.csv"
	InputPath string `yaml:"input_path"`

	// ProcessedDir receives the three derived CSV tables.
	// Default: "data/processed"
	ProcessedDir string `yaml:"processed_dir"`

	// FiguresDir receives the PNG charts.
	// Default: "figures"
	FiguresDir string `yaml:"figures_dir"`

	// =========================================================================
	// INPUT PARSING
	// =========================================================================

	// CSVSettings controls how the input CSV is split into rows and columns.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// CleaningRules are applied to raw column values before numeric
	// coercion. Column names refer to normalised headers.
	// Default: DefaultCleaningRules()
	CleaningRules []TransformationRule `yaml:"cleaning_rules"`

	// =========================================================================
	// CHARTS
	// =========================================================================

	// Watermark is the diagonal text overlaid on every chart.
	// Default: DefaultWatermark
	Watermark string `yaml:"watermark"`

	// DPI is the resolution of the PNG output.
	// Default: 300
	DPI int `yaml:"dpi"`

	// PostPandemic is the year window of the semester bar chart.
	// Default: 2022-2025
	PostPandemic YearWindow `yaml:"post_pandemic"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multiple header rows are
	// merged column by column.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// YearWindow is an inclusive range of years.
type YearWindow struct {
	FromYear int `yaml:"from_year"`
	ToYear   int `yaml:"to_year"`
}

// TransformationRule defines the cleaning actions for one column.
type TransformationRule struct {
	// Field is the normalised column name (e.g. "amount_million").
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single cleaning action.
type TransformationAction struct {
	// Type is one of: "replace", "regex_replace", "trim", "lowercase",
	// "uppercase".
	Type string `yaml:"type"`

	// Find is the substring or pattern for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// Value is the replacement for "replace" and "regex_replace".
	Value string `yaml:"value"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultCleaningRules returns the locale cleanup applied to the numeric
// columns. "." is stripped as a thousands separator, which also strips real
// decimal points.
func DefaultCleaningRules() []TransformationRule {
	return []TransformationRule{
		{
			Field: "amount_million",
			Actions: []TransformationAction{
				{Type: "replace", Find: "$", Value: ""},
				{Type: "replace", Find: " ", Value: ""},
				{Type: "replace", Find: ".", Value: ""},
			},
		},
		{
			Field: "transaction_count",
			Actions: []TransformationAction{
				{Type: "replace", Find: ".", Value: ""},
				{Type: "replace", Find: " ", Value: ""},
			},
		},
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.ProcessedDir == "" {
		config.ProcessedDir = filepath.Join("data", "processed")
	}
	if config.InputPath == "" {
		config.InputPath = filepath.Join(config.ProcessedDir, "uruguay_payment_trends.csv")
	}
	if config.FiguresDir == "" {
		config.FiguresDir = "figures"
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ";"
	}
	if config.CSVSettings.HeaderRows == 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.DataStartRow == 0 {
		config.CSVSettings.DataStartRow = config.CSVSettings.HeaderRows + 1
	}
	if len(config.CleaningRules) == 0 {
		config.CleaningRules = DefaultCleaningRules()
	}
	if config.Watermark == "" {
		config.Watermark = DefaultWatermark
	}
	if config.DPI == 0 {
		config.DPI = 300
	}
	if config.PostPandemic.FromYear == 0 && config.PostPandemic.ToYear == 0 {
		config.PostPandemic = YearWindow{FromYear: 2022, ToYear: 2025}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// =============================================================================
// LOADING AND VALIDATION
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. An empty path returns
//     DefaultConfig().
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateMainConfig rejects settings the pipeline cannot run with.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	if config.DPI < 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", config.DPI))
	}
	if config.PostPandemic.FromYear > config.PostPandemic.ToYear {
		errs = append(errs, fmt.Errorf("post_pandemic.from_year %d is after to_year %d",
			config.PostPandemic.FromYear, config.PostPandemic.ToYear))
	}
	if config.CSVSettings.HeaderRows < 1 {
		errs = append(errs, fmt.Errorf("csv_settings.header_rows must be at least 1"))
	}
	if config.CSVSettings.DataStartRow <= config.CSVSettings.HeaderRows {
		errs = append(errs, fmt.Errorf("csv_settings.data_start_row %d overlaps the header rows",
			config.CSVSettings.DataStartRow))
	}
	for _, rule := range config.CleaningRules {
		if rule.Field == "" {
			errs = append(errs, fmt.Errorf("cleaning rule without field"))
		}
	}

	return errors.Join(errs...)
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// AnnualSummaryPath returns the path of the wide annual table.
func (c *MainConfig) AnnualSummaryPath() string {
	return filepath.Join(c.ProcessedDir, AnnualSummaryFile)
}

// AnnualByMethodPath returns the path of the long (year, method) table.
func (c *MainConfig) AnnualByMethodPath() string {
	return filepath.Join(c.ProcessedDir, AnnualByMethodFile)
}

// CAGRSummaryPath returns the path of the growth-rate table.
func (c *MainConfig) CAGRSummaryPath() string {
	return filepath.Join(c.ProcessedDir, CAGRSummaryFile)
}
