package spreadsheet

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"greenmetrics/internal/allocation"
	"greenmetrics/internal/domain"
	"greenmetrics/internal/ports"
)

// Sheet names of the final workbook.
const (
	SheetData    = "Datos Originales"
	SheetSummary = "Resumen Financiero"
)

// Fill colors keyed by semantic group: blue for total research, green for
// sustainability research.
const (
	colorTotalHeader = "BDD7EE"
	colorTotalData   = "DCE6F1"
	colorSustHeader  = "C6E0B4"
	colorSustData    = "EBF1DE"
	colorYearFont    = "8A2BE2"
)

// Writer renders the allocated dataset and the financial summary into
// xlsx artifacts.
type Writer struct {
	logger *slog.Logger
}

var _ ports.DatasetExporter = (*Writer)(nil)

// NewWriter builds a spreadsheet writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// ExportDataset writes the intermediate artifact: one sheet with the
// per-project rows, a blank spacer row, and the totals row.
func (w *Writer) ExportDataset(ds domain.Dataset, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeDatasetGrid(f, sheet, ds); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save dataset workbook %s: %w", path, err)
	}
	w.logger.Info("dataset exported", "path", path, "projects", len(ds.Projects))
	return nil
}

// ExportReport writes the final artifact: the full dataset sheet plus the
// styled financial summary sheet.
func (w *Writer) ExportReport(ds domain.Dataset, summary domain.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetData); err != nil {
		return fmt.Errorf("rename data sheet: %w", err)
	}
	if err := writeDatasetGrid(f, SheetData, ds); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report workbook %s: %w", path, err)
	}
	w.logger.Info("report exported", "path", path)
	return nil
}

// DatasetColumns returns the canonical column order of the exported
// dataset: base identifying columns, the sustainability flag, sorted year
// columns, then sorted sustainable-year columns.
func DatasetColumns(years []int) []string {
	columns := []string{
		allocation.ColReference,
		allocation.ColTitle,
		allocation.ColStart,
		allocation.ColEnd,
		allocation.ColAmount,
		"Duration",
		"Daily Imputation",
		"Sostenible",
	}
	for _, year := range years {
		columns = append(columns, fmt.Sprintf("%d", year))
	}
	for _, year := range years {
		columns = append(columns, fmt.Sprintf("%d_sostenible", year))
	}
	return columns
}

func writeDatasetGrid(f *excelize.File, sheet string, ds domain.Dataset) error {
	columns := DatasetColumns(ds.Years)

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rowNum := 2
	for _, p := range ds.Projects {
		row := []any{
			p.Reference,
			p.Title,
			formatDate(p.StartDate, p.HasStart),
			formatDate(p.EndDate, p.HasEnd),
			p.Amount,
		}
		if p.Duration > 0 {
			row = append(row, p.Duration, p.DailyRate)
		} else {
			row = append(row, "", "")
		}
		row = append(row, p.Classified)
		for _, year := range ds.Years {
			row = append(row, p.YearlyAmounts[year])
		}
		for _, year := range ds.Years {
			row = append(row, p.YearlySustainable[year])
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
	}

	// Blank spacer row, then the totals row.
	rowNum++
	totals := make([]any, 0, len(columns))
	totals = append(totals, allocation.TotalLabel, "", "", "", "", "", "", "")
	for _, year := range ds.Years {
		totals = append(totals, round2(ds.Totals.Yearly[year]))
	}
	for _, year := range ds.Years {
		totals = append(totals, round2(ds.Totals.Sustainable[year]))
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("write totals row: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary domain.Summary) error {
	sheet := SheetSummary

	totalStyle, err := headerStyle(f, colorTotalHeader)
	if err != nil {
		return err
	}
	sustStyle, err := headerStyle(f, colorSustHeader)
	if err != nil {
		return err
	}
	totalDataStyle, err := dataStyle(f, colorTotalData)
	if err != nil {
		return err
	}
	sustDataStyle, err := dataStyle(f, colorSustData)
	if err != nil {
		return err
	}
	yearTotalStyle, err := yearStyle(f, colorTotalHeader)
	if err != nil {
		return err
	}
	yearSustStyle, err := yearStyle(f, colorSustHeader)
	if err != nil {
		return err
	}

	// Row 1: category headers, row 2: years, row 3 spacer, rows 4-6 the
	// Euros / rate / Dollars values. Total-research columns first, then
	// the sustainability-research group.
	rowLabels := []string{"Euros", "US Dollar Spot Exchange Rates", "Dolars"}
	for i, label := range rowLabels {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+4), label); err != nil {
			return fmt.Errorf("write row label: %w", err)
		}
	}

	col := 2
	writeGroup := func(category string, headerID, yearID, dataID int, euros, usd map[int]float64) error {
		for _, year := range summary.Years {
			catCell, _ := excelize.CoordinatesToCellName(col, 1)
			yearCell, _ := excelize.CoordinatesToCellName(col, 2)

			if err := f.SetCellValue(sheet, catCell, category); err != nil {
				return fmt.Errorf("write category: %w", err)
			}
			if err := f.SetCellValue(sheet, yearCell, year); err != nil {
				return fmt.Errorf("write year: %w", err)
			}

			values := []any{
				formatEuros(euros[year]),
				summary.Rates[year],
				formatDollars(usd[year]),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col, i+4)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("write summary value: %w", err)
				}
			}

			dataTop, _ := excelize.CoordinatesToCellName(col, 4)
			dataBottom, _ := excelize.CoordinatesToCellName(col, 6)
			_ = f.SetCellStyle(sheet, catCell, catCell, headerID)
			_ = f.SetCellStyle(sheet, yearCell, yearCell, yearID)
			_ = f.SetCellStyle(sheet, dataTop, dataBottom, dataID)
			col++
		}
		return nil
	}

	if err := writeGroup("Total research", totalStyle, yearTotalStyle, totalDataStyle,
		summary.ResearchEUR, summary.ResearchUSD); err != nil {
		return err
	}
	if err := writeGroup("Sustainability research", sustStyle, yearSustStyle, sustDataStyle,
		summary.SustainableEUR, summary.SustainableUSD); err != nil {
		return err
	}

	// Flat totals table below the per-year block.
	startRow := 8
	totalsRows := []struct {
		label string
		value string
		style int
	}{
		{"Total research funds (in US Dollars)", formatDollars(summary.TotalResearchUSD), totalStyle},
		{"Total research funds dedicated to sustainability research", formatDollars(summary.TotalSustainable), sustStyle},
		{"The ratio of sustainability research funding to total research funding", fmt.Sprintf("%v%%", summary.RatioPercent), 0},
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", startRow), "Resultados"); err != nil {
		return fmt.Errorf("write totals header: %w", err)
	}
	for i, row := range totalsRows {
		labelCell := fmt.Sprintf("A%d", startRow+1+i)
		valueCell := fmt.Sprintf("B%d", startRow+1+i)
		if err := f.SetCellValue(sheet, labelCell, row.label); err != nil {
			return fmt.Errorf("write totals label: %w", err)
		}
		if err := f.SetCellValue(sheet, valueCell, row.value); err != nil {
			return fmt.Errorf("write totals value: %w", err)
		}
		if row.style != 0 {
			_ = f.SetCellStyle(sheet, valueCell, valueCell, row.style)
		}
	}

	return nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func yearStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: colorYearFont},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func dataStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func formatDate(t time.Time, present bool) string {
	if !present {
		return ""
	}
	return t.Format("02/01/2006")
}

// formatEuros renders "1,234,567.89 €" and formatDollars "$1,234,567.9",
// matching the published report formats.
func formatEuros(v float64) string {
	return groupThousands(fmt.Sprintf("%.2f", v)) + " €"
}

func formatDollars(v float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.1f", v))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
