package allocation

import "greenmetrics/internal/domain"

// TotalLabel is the literal placed in the first cell of the totals row.
// The trailing space is part of the label in the published reports.
const TotalLabel = "TOTAL "

// ComputeTotals sums the yearly and sustainable-yearly columns across all
// projects into the terminal totals row.
func ComputeTotals(projects []domain.Project, years []int) domain.Totals {
	totals := domain.Totals{
		Yearly:      make(map[int]float64, len(years)),
		Sustainable: make(map[int]float64, len(years)),
	}
	for _, year := range years {
		totals.Yearly[year] = 0
		totals.Sustainable[year] = 0
	}
	for _, p := range projects {
		for _, year := range years {
			totals.Yearly[year] += p.YearlyAmounts[year]
			totals.Sustainable[year] += p.YearlySustainable[year]
		}
	}
	return totals
}
