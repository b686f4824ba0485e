package domain

import (
	"fmt"
	"strings"
)

// Format identifies an output format.
type Format string

// Recognised output formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat normalises and validates an output format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (must be json or csv)", ErrUnsupportedFormat, s)
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// PreservationMethod is the value transform applied before CSV
// emission to stop spreadsheet applications from reinterpreting text
// as numbers, dates or formulas.
type PreservationMethod string

// Recognised preservation methods.
const (
	// PreserveApostrophe prefixes a leading apostrophe.
	PreserveApostrophe PreservationMethod = "apostrophe"

	// PreserveQuotes wraps the value in double quotes, doubling
	// internal quotes.
	PreserveQuotes PreservationMethod = "quotes"

	// PreserveBrackets wraps the value in square brackets.
	PreserveBrackets PreservationMethod = "brackets"
)

// IsValid returns true if the preservation method is recognised.
func (m PreservationMethod) IsValid() bool {
	switch m {
	case PreserveApostrophe, PreserveQuotes, PreserveBrackets:
		return true
	default:
		return false
	}
}

// ValidEncodings are the encodings accepted for processing.encoding.
var ValidEncodings = []string{"utf-8", "utf-16", "iso-8859-1", "ascii", "cp1252"}

// ProcessingConfig controls concurrency and file reading.
type ProcessingConfig struct {
	// MaxWorkers bounds the batch worker pool. Must be >= 1.
	MaxWorkers int `yaml:"max_workers"`

	// Encoding is the preferred encoding, tried first when reading.
	Encoding string `yaml:"encoding"`
}

// CSVConfig controls CSV output.
type CSVConfig struct {
	// MaxRecordsPerFile caps rows per CSV chunk. Must be >= 1.
	MaxRecordsPerFile int `yaml:"max_records_per_file"`

	// PreservationMethod selects the spreadsheet-safety transform.
	PreservationMethod PreservationMethod `yaml:"preservation_method"`

	// KeySeparator joins nested path segments in CSV keys.
	KeySeparator string `yaml:"key_separator"`
}

// OutputConfig names the bookkeeping directories.
type OutputConfig struct {
	SummaryDir string `yaml:"summary_dir"`
	LogsDir    string `yaml:"logs_dir"`
}

// FeaturesConfig holds feature toggles.
type FeaturesConfig struct {
	// EnableDryRun reports discovered files without converting them.
	EnableDryRun bool `yaml:"enable_dry_run"`
}

// XMLConfig controls XML mapping behaviour.
type XMLConfig struct {
	// PreserveNamespacePrefix keeps known namespace prefixes on emitted
	// element and attribute names instead of stripping to local names.
	PreserveNamespacePrefix bool `yaml:"preserve_namespace_prefix"`
}

// JSONConfig controls JSON output behaviour.
type JSONConfig struct {
	// Flatten emits a flat path-keyed object instead of the nested tree.
	Flatten bool `yaml:"flatten"`

	// Separator joins nested path segments when Flatten is enabled.
	Separator string `yaml:"separator"`
}

// Config is the full application configuration. It is loaded once by
// the config store and injected into services at construction time;
// there is no hidden process-wide cache.
type Config struct {
	Processing ProcessingConfig `yaml:"processing"`
	CSV        CSVConfig        `yaml:"csv"`
	Output     OutputConfig     `yaml:"output"`
	Features   FeaturesConfig   `yaml:"features"`
	XML        XMLConfig        `yaml:"xml"`
	JSON       JSONConfig       `yaml:"json"`
}

// DefaultConfig returns the documented defaults for every option.
func DefaultConfig() Config {
	return Config{
		Processing: ProcessingConfig{
			MaxWorkers: 4,
			Encoding:   "utf-8",
		},
		CSV: CSVConfig{
			MaxRecordsPerFile:  50000,
			PreservationMethod: PreserveApostrophe,
			KeySeparator:       " | ",
		},
		Output: OutputConfig{
			SummaryDir: "./summaries",
			LogsDir:    "./logs",
		},
		Features: FeaturesConfig{
			EnableDryRun: false,
		},
		XML: XMLConfig{
			PreserveNamespacePrefix: false,
		},
		JSON: JSONConfig{
			Flatten:   false,
			Separator: "/",
		},
	}
}

// Validate checks option bounds and enumerations. It returns an error
// wrapping ErrInvalidConfig on the first violation.
func (c Config) Validate() error {
	if c.Processing.MaxWorkers < 1 {
		return fmt.Errorf("%w: processing.max_workers must be >= 1, got %d",
			ErrInvalidConfig, c.Processing.MaxWorkers)
	}
	if !isValidEncoding(c.Processing.Encoding) {
		return fmt.Errorf("%w: processing.encoding must be one of: %s",
			ErrInvalidConfig, strings.Join(ValidEncodings, ", "))
	}
	if c.CSV.MaxRecordsPerFile < 1 {
		return fmt.Errorf("%w: csv.max_records_per_file must be >= 1, got %d",
			ErrInvalidConfig, c.CSV.MaxRecordsPerFile)
	}
	if !c.CSV.PreservationMethod.IsValid() {
		return fmt.Errorf("%w: csv.preservation_method must be one of: apostrophe, quotes, brackets",
			ErrInvalidConfig)
	}
	return nil
}

func isValidEncoding(name string) bool {
	for _, enc := range ValidEncodings {
		if strings.EqualFold(name, enc) {
			return true
		}
	}
	return false
}
