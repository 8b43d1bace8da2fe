package domain

import "time"

// Project is a core entity describing one research project row from the
// funding spreadsheet.
type Project struct {
	Reference  string
	Title      string
	StartDate  time.Time
	EndDate    time.Time
	HasStart   bool
	HasEnd     bool
	RawAmount  string
	Amount     float64
	Duration   int
	DailyRate  float64
	Classified string

	// YearlyAmounts holds the per-calendar-year share of Amount.
	// YearlySustainable mirrors it verbatim when the project is
	// classified as sustainable, and stays zero otherwise.
	YearlyAmounts     map[int]float64
	YearlySustainable map[int]float64
}

// Sustainable reports whether the classifier answered with the affirmative
// token. Any other answer, including failures recorded as "no", counts as
// not sustainable.
func (p Project) Sustainable() bool {
	return p.Classified == "yes"
}

// Dataset is a fully allocated batch of projects plus its year range.
type Dataset struct {
	Projects []Project
	Years    []int
	Totals   Totals
}

// Totals is the synthetic summary row appended after all project rows.
// Computed once after allocation and classification, never mutated.
type Totals struct {
	Yearly      map[int]float64
	Sustainable map[int]float64
}

// Summary is the read-only financial view built from the totals row and
// the per-year EUR to USD exchange rates.
type Summary struct {
	Years            []int
	ResearchEUR      map[int]float64
	SustainableEUR   map[int]float64
	Rates            map[int]float64
	ResearchUSD      map[int]float64
	SustainableUSD   map[int]float64
	TotalResearchUSD float64
	TotalSustainable float64
	RatioPercent     float64
}

// Table is a loosely typed spreadsheet extract: a cleaned header plus the
// data rows that survived validation.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Column returns the index of the named column, or -1 when absent.
func (t Table) Column(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// RunStatus enumerates report-generation milestones persisted for audit.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run captures one report generation for the history table.
type Run struct {
	ReportID         string
	InputFile        string
	ProjectCount     int
	TotalResearchUSD float64
	SustainableUSD   float64
	RatioPercent     float64
	Status           RunStatus
	CreatedAt        time.Time
}
