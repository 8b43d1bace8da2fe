package allocation

import (
	"math"

	"greenmetrics/internal/domain"
)

// SummaryYears trims the batch year range down to the years entering the
// currency summary. The first and last year are dropped when more than two
// are present: the questionnaire evaluates the three intermediate years of
// a five-year window, and boundary years only ever hold partial amounts.
func SummaryYears(years []int) []int {
	if len(years) <= 2 {
		return years
	}
	trimmed := make([]int, len(years)-2)
	copy(trimmed, years[1:len(years)-1])
	return trimmed
}

// Ratio expresses sustainable USD funds as a percentage of total USD funds,
// rounded to one decimal. Either operand being zero defines the ratio as
// zero instead of dividing.
func Ratio(sustainableUSD, totalUSD float64) float64 {
	if totalUSD == 0 || sustainableUSD == 0 {
		return 0
	}
	return math.Round(sustainableUSD/totalUSD*1000) / 10
}

// BuildSummary converts the totals row into the financial summary using
// the per-year EUR to USD rates. A year missing from rates contributes
// zero dollars; per-year conversions are rounded to cents before summing.
func BuildSummary(totals domain.Totals, years []int, rates map[int]float64) domain.Summary {
	summary := domain.Summary{
		Years:          append([]int(nil), years...),
		ResearchEUR:    make(map[int]float64, len(years)),
		SustainableEUR: make(map[int]float64, len(years)),
		Rates:          make(map[int]float64, len(years)),
		ResearchUSD:    make(map[int]float64, len(years)),
		SustainableUSD: make(map[int]float64, len(years)),
	}

	for _, year := range years {
		rate := rates[year]
		researchEUR := totals.Yearly[year]
		sustainableEUR := totals.Sustainable[year]

		summary.Rates[year] = rate
		summary.ResearchEUR[year] = researchEUR
		summary.SustainableEUR[year] = sustainableEUR
		summary.ResearchUSD[year] = round2(researchEUR * rate)
		summary.SustainableUSD[year] = round2(sustainableEUR * rate)

		summary.TotalResearchUSD += summary.ResearchUSD[year]
		summary.TotalSustainable += summary.SustainableUSD[year]
	}

	summary.RatioPercent = Ratio(summary.TotalSustainable, summary.TotalResearchUSD)
	return summary
}
