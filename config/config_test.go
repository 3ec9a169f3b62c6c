package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Path != "processed_output.xlsx" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if cfg.Output.SheetName != "Sheet1" {
		t.Errorf("Output.SheetName = %q", cfg.Output.SheetName)
	}
	if !reflect.DeepEqual(cfg.Delimited.Encodings, []string{"utf-8", "latin1", "iso-8859-1"}) {
		t.Errorf("Delimited.Encodings = %v", cfg.Delimited.Encodings)
	}
	if !reflect.DeepEqual(cfg.Delimited.Delimiters, []string{",", "\t", "|", ";"}) {
		t.Errorf("Delimited.Delimiters = %q", cfg.Delimited.Delimiters)
	}
	if cfg.OCR.RowRatio != 0.5 {
		t.Errorf("OCR.RowRatio = %v, want 0.5", cfg.OCR.RowRatio)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabmerge.yaml")
	content := `
output:
  sheet_name: Combined Data
logging:
  level: debug
  format: json
ocr:
  row_ratio: 0.75
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Output.SheetName != "Combined Data" {
		t.Errorf("Output.SheetName = %q", cfg.Output.SheetName)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.OCR.RowRatio != 0.75 {
		t.Errorf("OCR.RowRatio = %v", cfg.OCR.RowRatio)
	}
	// unset fields keep defaults
	if cfg.Output.Path != "processed_output.xlsx" || cfg.OCR.Language != "eng" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TABMERGE_LOG_LEVEL", "warn")
	t.Setenv("TABMERGE_ENCODINGS", "utf-8, windows-1252")
	t.Setenv("TABMERGE_OCR_ROW_RATIO", "0.6")
	t.Setenv("TABMERGE_DISABLE_FIXED_WIDTH", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if !reflect.DeepEqual(cfg.Delimited.Encodings, []string{"utf-8", "windows-1252"}) {
		t.Errorf("Delimited.Encodings = %v", cfg.Delimited.Encodings)
	}
	if cfg.OCR.RowRatio != 0.6 {
		t.Errorf("OCR.RowRatio = %v", cfg.OCR.RowRatio)
	}
	if !cfg.Delimited.DisableFixedWidth {
		t.Error("DisableFixedWidth not applied")
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := "TABMERGE_SHEET_NAME=FromDotEnv\nTABMERGE_LOG_FORMAT=json\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABMERGE_LOG_FORMAT", "text")
	t.Cleanup(func() { os.Unsetenv("TABMERGE_SHEET_NAME") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.SheetName != "FromDotEnv" {
		t.Errorf("Output.SheetName = %q, want FromDotEnv", cfg.Output.SheetName)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, real environment should win", cfg.Logging.Format)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TABMERGE_OCR_PSM", "many")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "TABMERGE_OCR_PSM") {
		t.Errorf("Load() error = %v, want TABMERGE_OCR_PSM error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"long sheet", func(c *Config) { c.Output.SheetName = strings.Repeat("x", 32) }, "31 characters"},
		{"bad sheet char", func(c *Config) { c.Output.SheetName = "a/b" }, "sheet_name"},
		{"multi-char delimiter", func(c *Config) { c.Delimited.Delimiters = []string{"::"} }, "delimiter"},
		{"quote delimiter", func(c *Config) { c.Delimited.Delimiters = []string{`"`} }, "delimiter"},
		{"psm range", func(c *Config) { c.OCR.PageSegMode = 20 }, "page_seg_mode"},
		{"ratio", func(c *Config) { c.OCR.RowRatio = -1 }, "row_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
