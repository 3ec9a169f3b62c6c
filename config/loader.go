package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name read by Load.
const EnvPrefix = "TABMERGE_"

// LoadFile reads a YAML config file. Fields the file leaves unset keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// Load builds the configuration from .env, the optional YAML file at path
// and TABMERGE_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads a .env file if one exists. Variables already present in
// the environment are left untouched.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

type lookupFunc func(string) (string, bool)

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup lookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("OUTPUT"); ok {
		c.Output.Path = v
	}
	if v, ok := get("SHEET_NAME"); ok {
		c.Output.SheetName = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := get("ENCODINGS"); ok {
		c.Delimited.Encodings = splitList(v)
	}
	if v, ok := get("OCR_LANGUAGE"); ok {
		c.OCR.Language = v
	}

	if v, ok := get("DISABLE_FIXED_WIDTH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for %sDISABLE_FIXED_WIDTH=%q: %w", EnvPrefix, v, err)
		}
		c.Delimited.DisableFixedWidth = b
	}
	if v, ok := get("PDF_SKIP_INSPECTION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for %sPDF_SKIP_INSPECTION=%q: %w", EnvPrefix, v, err)
		}
		c.PDF.SkipInspection = b
	}
	if v, ok := get("OCR_PSM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %sOCR_PSM=%q: %w", EnvPrefix, v, err)
		}
		c.OCR.PageSegMode = n
	}
	if v, ok := get("OCR_ROW_RATIO"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %sOCR_ROW_RATIO=%q: %w", EnvPrefix, v, err)
		}
		c.OCR.RowRatio = f
	}

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
