package spreadsheet

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/tabmerge/internal/fallback"
	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
)

var (
	errEmptySheet = errors.New("first worksheet is empty")
	errNoDataRows = errors.New("first worksheet has a header but no data rows")
)

// DefaultEngines returns the engine chain: Office Open XML first, then
// legacy BIFF.
func DefaultEngines() []Engine {
	return []Engine{XLSXEngine{}, XLSEngine{}}
}

// Extractor reads tables from spreadsheet files.
type Extractor struct {
	engines []Engine
	logger  *slog.Logger
}

// New creates an extractor trying engines in order. With no engines the
// default chain is used. A nil logger discards output.
func New(logger *slog.Logger, engines ...Engine) *Extractor {
	if len(engines) == 0 {
		engines = DefaultEngines()
	}
	return &Extractor{engines: engines, logger: logging.OrDiscard(logger)}
}

// ExtractFile returns the first worksheet of the workbook at path as a
// table, using the first engine that reads a non-empty one.
func (e *Extractor) ExtractFile(path string) (*model.Table, error) {
	attempts := make([]fallback.Attempt[*model.Table], 0, len(e.engines))
	for _, eng := range e.engines {
		attempts = append(attempts, fallback.Attempt[*model.Table]{
			Name: eng.Name(),
			Run: func() (*model.Table, error) {
				grid, err := eng.ReadFirstSheet(path)
				if err != nil {
					return nil, err
				}
				return gridToTable(grid)
			},
		})
	}

	t, name, err := fallback.First(e.logger, attempts...)
	if err != nil {
		return nil, fmt.Errorf("%w: tried %s", model.ErrNoEngineSucceeded, e.engineNames())
	}
	e.logger.Debug("spreadsheet read", "file", path, "engine", name, "rows", t.RowCount())
	return t, nil
}

func (e *Extractor) engineNames() string {
	names := make([]string, len(e.engines))
	for i, eng := range e.engines {
		names[i] = eng.Name()
	}
	return strings.Join(names, ", ")
}

// gridToTable uses the first row as the header and the rest as data.
// Rows with no content are dropped.
func gridToTable(grid [][]string) (*model.Table, error) {
	if len(grid) == 0 {
		return nil, errEmptySheet
	}

	var data [][]string
	for _, row := range grid[1:] {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				data = append(data, row)
				break
			}
		}
	}
	if len(data) == 0 {
		return nil, errNoDataRows
	}

	return model.FromGrid(grid[0], data), nil
}
