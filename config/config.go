// Package config holds the tabmerge configuration and its loaders.
//
// Values come from three layers, later layers winning: built-in defaults, an
// optional YAML file, and TABMERGE_* environment variables (a .env file in the
// working directory is loaded first and never overrides the real environment).
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabmerge/internal/logging"
)

// Config is the complete tabmerge configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Delimited DelimitedConfig `yaml:"delimited"`
	OCR       OCRConfig       `yaml:"ocr"`
	PDF       PDFConfig       `yaml:"pdf"`
}

// OutputConfig controls the combined spreadsheet.
type OutputConfig struct {
	// Path is used when the caller does not name an output file.
	Path      string `yaml:"path"`
	SheetName string `yaml:"sheet_name"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DelimitedConfig controls delimited-text extraction.
type DelimitedConfig struct {
	// Encodings are tried in order when the input has no byte order mark.
	Encodings  []string `yaml:"encodings"`
	Delimiters []string `yaml:"delimiters"`
	// DisableFixedWidth turns off the fixed-width fallback.
	DisableFixedWidth bool `yaml:"disable_fixed_width"`
}

// OCRConfig controls image recognition and row clustering.
type OCRConfig struct {
	Language    string `yaml:"language"`
	PageSegMode int    `yaml:"page_seg_mode"`
	// RowRatio scales the mean token height into the row break threshold.
	RowRatio float64 `yaml:"row_ratio"`
}

// PDFConfig controls PDF table extraction.
type PDFConfig struct {
	// LineTolerance is the distance in points within which ruling lines are
	// treated as aligned.
	LineTolerance float64 `yaml:"line_tolerance"`
	// MaxRuleThickness is the largest rectangle side still treated as a rule.
	MaxRuleThickness float64 `yaml:"max_rule_thickness"`
	SkipInspection   bool    `yaml:"skip_inspection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.Output.Path == "" {
		c.Output.Path = "processed_output.xlsx"
	}
	if c.Output.SheetName == "" {
		c.Output.SheetName = "Sheet1"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if len(c.Delimited.Encodings) == 0 {
		c.Delimited.Encodings = []string{"utf-8", "latin1", "iso-8859-1"}
	}
	if len(c.Delimited.Delimiters) == 0 {
		c.Delimited.Delimiters = []string{",", "\t", "|", ";"}
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "eng"
	}
	if c.OCR.PageSegMode <= 0 {
		c.OCR.PageSegMode = 3
	}
	if c.OCR.RowRatio <= 0 {
		c.OCR.RowRatio = 0.5
	}
	if c.PDF.LineTolerance <= 0 {
		c.PDF.LineTolerance = 2.0
	}
	if c.PDF.MaxRuleThickness <= 0 {
		c.PDF.MaxRuleThickness = 3.0
	}
}

// Validate checks the configuration for values the extractors cannot use.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, errors.New("output.path must not be empty"))
	}
	if err := validateSheetName(c.Output.SheetName); err != nil {
		errs = append(errs, err)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not text or json", c.Logging.Format))
	}

	for _, d := range c.Delimited.Delimiters {
		if utf8.RuneCountInString(d) != 1 || d == "\n" || d == "\r" || d == "\"" {
			errs = append(errs, fmt.Errorf("delimited.delimiters: %q is not a usable single-character delimiter", d))
		}
	}
	for _, e := range c.Delimited.Encodings {
		if strings.TrimSpace(e) == "" {
			errs = append(errs, errors.New("delimited.encodings must not contain blank names"))
			break
		}
	}

	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		errs = append(errs, fmt.Errorf("ocr.page_seg_mode %d is outside 0-13", c.OCR.PageSegMode))
	}
	if c.OCR.RowRatio <= 0 || c.OCR.RowRatio > 5 {
		errs = append(errs, fmt.Errorf("ocr.row_ratio %g must be in (0, 5]", c.OCR.RowRatio))
	}

	if c.PDF.LineTolerance <= 0 {
		errs = append(errs, fmt.Errorf("pdf.line_tolerance %g must be positive", c.PDF.LineTolerance))
	}
	if c.PDF.MaxRuleThickness <= 0 {
		errs = append(errs, fmt.Errorf("pdf.max_rule_thickness %g must be positive", c.PDF.MaxRuleThickness))
	}

	return errors.Join(errs...)
}

// validateSheetName applies the spreadsheet rules for worksheet names.
func validateSheetName(name string) error {
	if name == "" {
		return errors.New("output.sheet_name must not be empty")
	}
	if utf8.RuneCountInString(name) > 31 {
		return fmt.Errorf("output.sheet_name %q is longer than 31 characters", name)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("output.sheet_name %q contains one of []:*?/\\", name)
	}
	return nil
}
