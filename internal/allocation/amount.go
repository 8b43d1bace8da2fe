package allocation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"greenmetrics/internal/domain"
)

// ErrZeroDuration signals a division by a non-positive duration. Dates that
// passed NormalizeDates always yield a duration of at least one day, so this
// only fires on input that bypassed the normalizer.
var ErrZeroDuration = errors.New("project duration is not positive")

// NormalizeAmount rewrites a Spanish-locale money string ("1.234.567,89")
// into a canonical decimal string ("1234567.89"). Every "." is a thousands
// separator and every "," the decimal mark; the export this engine consumes
// is single-locale and the rule is not configurable. Applying it to an
// already normalized string is a no-op.
func NormalizeAmount(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, ".", "")
	value = strings.ReplaceAll(value, ",", ".")
	return value
}

// ParseAmount normalizes and parses a money cell.
func ParseAmount(value string) (float64, error) {
	normalized := NormalizeAmount(value)
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}

// ComputeDailyRates parses each project's total amount and derives the
// per-day rate used by the yearly allocator. Projects without a duration
// (one date missing) keep a zero rate and are never allocated.
func ComputeDailyRates(projects []domain.Project) ([]domain.Project, error) {
	for i := range projects {
		p := &projects[i]

		amount, err := ParseAmount(p.RawAmount)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", p.Reference, err)
		}
		p.Amount = amount

		if !p.HasStart || !p.HasEnd {
			continue
		}
		if p.Duration <= 0 {
			return nil, fmt.Errorf("project %s (%s to %s): %w",
				p.Reference,
				p.StartDate.Format("2006-01-02"),
				p.EndDate.Format("2006-01-02"),
				ErrZeroDuration)
		}
		p.DailyRate = p.Amount / float64(p.Duration)
	}
	return projects, nil
}
