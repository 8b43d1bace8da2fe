package allocation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenmetrics/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func project(ref string, start, end time.Time, rawAmount string) domain.Project {
	return domain.Project{
		Reference: ref,
		StartDate: start,
		EndDate:   end,
		HasStart:  true,
		HasEnd:    true,
		RawAmount: rawAmount,
	}
}

func prepare(t *testing.T, projects []domain.Project) []domain.Project {
	t.Helper()
	projects, err := NormalizeDates(projects)
	require.NoError(t, err)
	projects, err = ComputeDailyRates(projects)
	require.NoError(t, err)
	return projects
}

func TestDurationInclusive(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2023, time.March, 1), date(2023, time.March, 1), 1},
		{"full year", date(2023, time.January, 1), date(2023, time.December, 31), 365},
		{"leap year", date(2024, time.January, 1), date(2024, time.December, 31), 366},
		{"across years", date(2022, time.June, 1), date(2023, time.March, 31), 304},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			projects := prepare(t, []domain.Project{project("P1", tc.start, tc.end, "1,00")})
			assert.Equal(t, tc.want, projects[0].Duration)
			assert.GreaterOrEqual(t, projects[0].Duration, 1)
		})
	}
}

func TestMultiYearProration(t *testing.T) {
	// 214 days in 2022, 90 days in 2023, 304 in total.
	projects := prepare(t, []domain.Project{
		project("P1", date(2022, time.June, 1), date(2023, time.March, 31), "3.650,00"),
	})
	years := YearRange(projects)
	// The range stops at the latest start year even though the project
	// runs into 2023.
	require.Equal(t, []int{2022}, years)

	projects = Allocate(projects, []int{2022, 2023})
	p := projects[0]
	assert.InDelta(t, 12.0066, p.DailyRate, 0.0001)
	assert.InDelta(t, 2569.41, p.YearlyAmounts[2022], 0.005)
	assert.InDelta(t, 1080.59, p.YearlyAmounts[2023], 0.005)

	sum := p.YearlyAmounts[2022] + p.YearlyAmounts[2023]
	assert.InDelta(t, 3650.00, sum, 0.01*float64(p.Duration))
}

func TestAllocationConservation(t *testing.T) {
	projects := prepare(t, []domain.Project{
		project("P1", date(2019, time.March, 14), date(2023, time.October, 2), "123.456,78"),
		project("P2", date(2020, time.January, 1), date(2020, time.December, 31), "50.000,00"),
		project("P3", date(2021, time.July, 7), date(2021, time.July, 7), "999,99"),
	})
	years := YearRange(projects)
	require.Equal(t, []int{2019, 2020, 2021}, years)

	// Widen the range so every project year is covered and conservation
	// can be checked against the full amount.
	projects = Allocate(projects, []int{2019, 2020, 2021, 2022, 2023})

	for _, p := range projects {
		var sum float64
		for _, v := range p.YearlyAmounts {
			sum += v
		}
		tolerance := 0.01 * float64(p.Duration)
		assert.LessOrEqual(t, math.Abs(sum-p.Amount), tolerance,
			"project %s: allocated %.2f of %.2f", p.Reference, sum, p.Amount)
	}
}

func TestAllocationOutsideSpanIsZero(t *testing.T) {
	projects := prepare(t, []domain.Project{
		project("P1", date(2021, time.February, 1), date(2021, time.November, 30), "10.000,00"),
	})
	projects = Allocate(projects, []int{2020, 2021, 2022})
	p := projects[0]
	assert.Zero(t, p.YearlyAmounts[2020])
	assert.Zero(t, p.YearlyAmounts[2022])
	assert.InDelta(t, 10000.00, p.YearlyAmounts[2021], 0.01)
}

func TestMirrorSustainable(t *testing.T) {
	projects := prepare(t, []domain.Project{
		project("P1", date(2020, time.January, 1), date(2021, time.December, 31), "7.300,00"),
		project("P2", date(2020, time.January, 1), date(2021, time.December, 31), "7.300,00"),
	})
	projects = Allocate(projects, []int{2020, 2021})
	projects[0].Classified = "yes"
	projects[1].Classified = "no"
	projects = MirrorSustainable(projects)

	assert.Equal(t, projects[0].YearlyAmounts, projects[0].YearlySustainable)
	for _, v := range projects[1].YearlySustainable {
		assert.Zero(t, v)
	}
}

func TestProjectMissingOneDateIsNotAllocated(t *testing.T) {
	projects := []domain.Project{
		project("P1", date(2020, time.January, 1), date(2020, time.December, 31), "1.000,00"),
		{Reference: "P2", HasStart: true, StartDate: date(2020, time.May, 1), RawAmount: "500,00"},
	}
	projects = prepare(t, projects)
	projects = Allocate(projects, []int{2020})

	assert.Zero(t, projects[1].YearlyAmounts[2020])
	assert.InDelta(t, 1000.00, projects[0].YearlyAmounts[2020], 0.01)
}

func TestNormalizeDatesHardStop(t *testing.T) {
	projects := []domain.Project{
		project("P1", date(2020, time.January, 1), date(2020, time.December, 31), "1.000,00"),
		{Reference: "P2", RawAmount: "500,00"},
	}
	_, err := NormalizeDates(projects)
	require.Error(t, err)
	assert.ErrorAs(t, err, &ErrMissingDates{})
}

func TestComputeTotals(t *testing.T) {
	projects := prepare(t, []domain.Project{
		project("P1", date(2020, time.January, 1), date(2020, time.December, 31), "1.000,00"),
		project("P2", date(2020, time.January, 1), date(2020, time.December, 31), "2.000,00"),
	})
	projects = Allocate(projects, []int{2020})
	projects[1].Classified = "yes"
	projects = MirrorSustainable(projects)

	totals := ComputeTotals(projects, []int{2020})
	assert.InDelta(t, 3000.00, totals.Yearly[2020], 0.01)
	assert.InDelta(t, 2000.00, totals.Sustainable[2020], 0.01)
}
