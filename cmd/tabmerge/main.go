// Command tabmerge merges every document in a directory into one XLSX
// workbook and prints a JSON report.
//
// Usage:
//
//	tabmerge -in DIR [-out FILE] [-config FILE] [-log-level L] [-log-format F]
//
// Exit status is 0 when the workbook was written, 1 when the batch failed
// and 2 for usage or configuration errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/tabmerge"
	"github.com/tsawler/tabmerge/config"
	"github.com/tsawler/tabmerge/internal/logging"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tabmerge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		inDir      = fs.String("in", "", "directory of input documents (required)")
		outPath    = fs.String("out", "", "output workbook (default from config)")
		configPath = fs.String("config", "", "YAML configuration file")
		logLevel   = fs.String("log-level", "", "log level: debug, info, warn, error")
		logFormat  = fs.String("log-format", "", "log format: text or json")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *inDir == "" {
		fmt.Fprintln(stderr, "tabmerge: -in is required")
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "tabmerge: %v\n", err)
		return exitUsage
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "tabmerge: %v\n", err)
		return exitUsage
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, stderr)
	report := tabmerge.NewAggregator(cfg, logger).Run(*inDir, *outPath)

	data, err := report.JSON()
	if err != nil {
		fmt.Fprintf(stderr, "tabmerge: encoding report: %v\n", err)
		return exitFailed
	}
	fmt.Fprintln(stdout, string(data))

	if !report.Success {
		return exitFailed
	}
	return exitOK
}
