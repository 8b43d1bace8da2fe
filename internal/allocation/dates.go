package allocation

import (
	"fmt"
	"strings"
	"time"

	"greenmetrics/internal/domain"
)

// Column names of the funding spreadsheet consumed by report 6.4. The
// source files come from the university project-management export and use
// Spanish headers.
const (
	ColReference = "Referencia Interna"
	ColTitle     = "Título"
	ColStart     = "Fecha Inicio"
	ColEnd       = "Fecha Fin"
	ColAmount    = "CUANTÍA TOTAL"
)

// RequiredColumns are the columns every processable row must carry.
func RequiredColumns() []string {
	return []string{ColStart, ColEnd, ColAmount}
}

// ErrMissingDates aborts the batch when a row carries no parseable date at
// all. The upstream export marks such rows as unreviewed, so the whole file
// is considered not ready for reporting.
type ErrMissingDates struct {
	Row int
}

func (e ErrMissingDates) Error() string {
	return fmt.Sprintf("row %d has neither a start nor an end date", e.Row)
}

// Dates are exported day-first (Spanish convention). A handful of layouts
// show up in practice, including datetimes Excel rendered with a time part.
var dateLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDate interprets a cell value as a day-first calendar date. The
// second return value is false for empty or unparseable input.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ProjectsFromTable maps the cleaned spreadsheet rows onto project records.
// Only the raw cell values are captured here; parsing and derivation happen
// in the normalization steps.
func ProjectsFromTable(t domain.Table) []domain.Project {
	refIdx := t.Column(ColReference)
	titleIdx := t.Column(ColTitle)
	startIdx := t.Column(ColStart)
	endIdx := t.Column(ColEnd)
	amountIdx := t.Column(ColAmount)

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	projects := make([]domain.Project, 0, len(t.Rows))
	for _, row := range t.Rows {
		p := domain.Project{
			Reference: cell(row, refIdx),
			Title:     cell(row, titleIdx),
			RawAmount: cell(row, amountIdx),
		}
		p.StartDate, p.HasStart = ParseDate(cell(row, startIdx))
		p.EndDate, p.HasEnd = ParseDate(cell(row, endIdx))
		projects = append(projects, p)
	}
	return projects
}

// NormalizeDates computes each project's inclusive duration in days. A row
// with both dates missing stops the whole batch with ErrMissingDates; a row
// with exactly one date missing is left without a duration and is skipped
// by the allocator.
func NormalizeDates(projects []domain.Project) ([]domain.Project, error) {
	for i := range projects {
		p := &projects[i]
		if !p.HasStart && !p.HasEnd {
			return nil, ErrMissingDates{Row: i}
		}
		if !p.HasStart || !p.HasEnd {
			continue
		}
		p.Duration = int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
	}
	return projects, nil
}
