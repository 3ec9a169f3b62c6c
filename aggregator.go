package tabmerge

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tsawler/tabmerge/config"
	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
	"github.com/tsawler/tabmerge/spreadsheet"
)

// Report messages.
const (
	MsgSuccess       = "Data processed successfully"
	MsgNoData        = "No data was processed"
	MsgOutputFailed  = "Data processed but output could not be written"
	msgInputNotFound = "Input directory not found: %s"
	errInputNotFound = "Directory not found: %s"
	errProcessing    = "Error processing %s: %v"
	errNoData        = "No data found in %s"
	errSavingOutput  = "Error saving output file %s: %v"
)

// Aggregator merges every file in a directory into one workbook.
type Aggregator struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	writer     *spreadsheet.Writer
	logger     *slog.Logger
}

// NewAggregator creates an aggregator. A nil cfg means config.Default()
// and a nil logger discards output.
func NewAggregator(cfg *config.Config, logger *slog.Logger, opts ...Option) *Aggregator {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrDiscard(logger)

	d := buildOptions(opts).dispatcher
	if d == nil {
		d = NewDispatcher(cfg, logger, opts...)
	}

	return &Aggregator{
		cfg:        cfg,
		dispatcher: d,
		writer:     spreadsheet.NewWriter(cfg.Output.SheetName, logger),
		logger:     logger,
	}
}

// Run processes every regular file in inputDir, in name order, and writes
// the union of their tables to outputPath. An empty outputPath means the
// configured output path. A file named like the output is skipped so a
// previous run's result is never read back in.
//
// Per-file failures are recorded in the report and never stop the batch.
func (a *Aggregator) Run(inputDir, outputPath string) *Report {
	if outputPath == "" {
		outputPath = a.cfg.Output.Path
	}

	report := newReport(uuid.NewString())
	logger := a.logger.With("run_id", report.RunID)

	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		logger.Error("input directory not found", "dir", inputDir)
		report.Message = fmt.Sprintf(msgInputNotFound, inputDir)
		report.Errors = append(report.Errors, fmt.Sprintf(errInputNotFound, inputDir))
		return report
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		logger.Error("listing input directory", "dir", inputDir, "error", err)
		report.Message = fmt.Sprintf(msgInputNotFound, inputDir)
		report.Errors = append(report.Errors, fmt.Sprintf(errInputNotFound, inputDir))
		return report
	}

	logger.Info("batch started", "dir", inputDir, "entries", len(entries))

	skip := filepath.Base(outputPath)
	var collected []*model.Table
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(inputDir, name)

		if name == skip {
			logger.Debug("skipping previous output", "file", name)
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		t, err := a.dispatcher.ProcessFile(path)
		switch {
		case err != nil:
			logger.Warn("file failed", "file", name, "kind", model.KindOf(err), "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf(errProcessing, name, err))
		case t.Empty():
			logger.Warn("file has no data", "file", name)
			report.Errors = append(report.Errors, fmt.Sprintf(errNoData, name))
		default:
			logger.Info("file processed", "file", name, "rows", t.RowCount(), "columns", t.ColCount())
			collected = append(collected, t)
			report.ProcessedFiles = append(report.ProcessedFiles, name)
		}
	}

	if len(collected) == 0 {
		logger.Warn("no data processed", "errors", len(report.Errors))
		report.Message = MsgNoData
		report.ProcessedFiles = []string{}
		return report
	}

	combined := model.Concat(collected...)
	if err := a.writer.Write(outputPath, combined); err != nil {
		logger.Error("writing output", "path", outputPath, "kind", model.KindOf(err), "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf(errSavingOutput, outputPath, err))
		report.Message = MsgOutputFailed
		return report
	}

	report.Success = true
	report.Message = MsgSuccess
	report.OutputPath = outputPath
	logger.Info("batch finished",
		"processed", len(report.ProcessedFiles),
		"failed", len(report.Errors),
		"rows", combined.RowCount(),
		"columns", combined.ColCount(),
		"output", outputPath)
	return report
}
