package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"greenmetrics/internal/domain"
	"greenmetrics/internal/ports"
)

// ErrHeaderNotFound aborts the batch when no spreadsheet row carries all
// of the required column names.
var ErrHeaderNotFound = errors.New("no row contains all required columns")

// Reader loads the loosely structured funding export. The header row is
// found dynamically: upstream files carry university letterhead and notes
// above the actual table, and a trailing summary block below it.
type Reader struct {
	logger *slog.Logger
}

var _ ports.TableSource = (*Reader)(nil)

// NewReader builds a spreadsheet reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Load reads the first sheet of the workbook at path and returns the
// cleaned table: the first row whose cells are a superset of required
// becomes the header, empty-named columns are dropped, everything from the
// first "Total:" cell onward is discarded, and rows missing any required
// value are removed.
func (r *Reader) Load(ctx context.Context, path string, required []string) (domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if containsAll(row, required) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return domain.Table{}, fmt.Errorf("%s: %w", path, ErrHeaderNotFound)
	}
	if headerIdx > 0 {
		r.logger.Debug("header found below top of sheet", "row", headerIdx)
	}

	// Keep only named columns; the export pads the table with empty
	// header cells that pandas-style tools label "Unnamed".
	var columns []string
	var keep []int
	for j, cell := range rows[headerIdx] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		columns = append(columns, name)
		keep = append(keep, j)
	}

	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if hasTotalMarker(row) {
			break
		}
		projected := make([]string, len(keep))
		for k, j := range keep {
			if j < len(row) {
				projected[k] = row[j]
			}
		}
		data = append(data, projected)
	}

	table := domain.Table{Columns: columns, Rows: nil}
	for _, row := range data {
		if rowComplete(table, row, required) {
			table.Rows = append(table.Rows, row)
		}
	}

	r.logger.Info("spreadsheet loaded",
		"path", path,
		"headerRow", headerIdx,
		"rows", len(table.Rows),
		"columns", len(table.Columns))
	return table, nil
}

func containsAll(row, required []string) bool {
	cells := make(map[string]bool, len(row))
	for _, cell := range row {
		cells[strings.TrimSpace(cell)] = true
	}
	for _, name := range required {
		if !cells[name] {
			return false
		}
	}
	return true
}

// hasTotalMarker reports whether any cell equals "Total:" ignoring case
// and surrounding whitespace. The source files append their own summary
// block starting at such a row; it must not be processed as data.
func hasTotalMarker(row []string) bool {
	for _, cell := range row {
		if strings.EqualFold(strings.TrimSpace(cell), "total:") {
			return true
		}
	}
	return false
}

func rowComplete(t domain.Table, row []string, required []string) bool {
	for _, name := range required {
		idx := t.Column(name)
		if idx < 0 || idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			return false
		}
	}
	return true
}
