package allocation

import (
	"math"
	"time"

	"greenmetrics/internal/domain"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// YearRange returns every calendar year from the earliest to the latest
// start date in the batch. The range deliberately ignores end-date years:
// a project ending after the latest start year loses its trailing-year
// allocation. That matches the report as it has always been produced and
// must not be changed without product sign-off.
func YearRange(projects []domain.Project) []int {
	minYear, maxYear := 0, 0
	for _, p := range projects {
		if !p.HasStart {
			continue
		}
		year := p.StartDate.Year()
		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	if minYear == 0 {
		return nil
	}

	years := make([]int, 0, maxYear-minYear+1)
	for y := minYear; y <= maxYear; y++ {
		years = append(years, y)
	}
	return years
}

// Allocate distributes each project's total amount across the calendar
// years of the batch range, proportionally to the days of the project that
// fall in each year. Every project gets a zero entry for every year in the
// range; projects missing a date keep all entries at zero.
func Allocate(projects []domain.Project, years []int) []domain.Project {
	for i := range projects {
		p := &projects[i]
		p.YearlyAmounts = make(map[int]float64, len(years))
		p.YearlySustainable = make(map[int]float64, len(years))
		for _, year := range years {
			p.YearlyAmounts[year] = 0
			p.YearlySustainable[year] = 0
		}

		if !p.HasStart || !p.HasEnd {
			continue
		}

		for _, year := range years {
			yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

			effectiveStart := p.StartDate
			if yearStart.After(effectiveStart) {
				effectiveStart = yearStart
			}
			effectiveEnd := p.EndDate
			if yearEnd.Before(effectiveEnd) {
				effectiveEnd = yearEnd
			}

			if effectiveStart.After(effectiveEnd) {
				continue
			}
			daysInYear := int(effectiveEnd.Sub(effectiveStart).Hours()/24) + 1
			p.YearlyAmounts[year] = round2(float64(daysInYear) * p.DailyRate)
		}
	}
	return projects
}

// MirrorSustainable copies each sustainable project's yearly allocation
// verbatim into the sustainable columns. Values are copied, not recomputed,
// so the two column families agree to the cent.
func MirrorSustainable(projects []domain.Project) []domain.Project {
	for i := range projects {
		p := &projects[i]
		if !p.Sustainable() {
			continue
		}
		for year, amount := range p.YearlyAmounts {
			p.YearlySustainable[year] = amount
		}
	}
	return projects
}
