package tenure

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION - Calendar-relative span
// =============================================================================

// Duration is a span in whole years, months and days.
// Normalized durations keep Months in [0, 11]. Days are never carried into
// months because month length depends on where the span sits in the calendar.
type Duration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Between returns the calendar span from start to end using field
// subtraction with borrow. A missing date on either side gives the zero
// Duration. start after end is not rejected; ordering is the caller's concern.
func Between(start, end Date) Duration {
	if start.IsZero() || end.IsZero() {
		return Duration{}
	}

	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	days := end.Day() - start.Day()

	if days < 0 {
		months--
		// Borrow the length of the month before end's month. If that month
		// is too short to cover the deficit (Jan 31 -> Mar 1 borrows a 29-day
		// February), start's day is clamped to its last day and the
		// remainder is just end's day.
		days += daysIn(end.Year(), end.Month()-1)
		if days < 0 {
			days = end.Day()
		}
	}

	if months < 0 {
		years--
		months += 12
	}

	return Duration{Years: years, Months: months, Days: days}
}

// daysIn handles month 0 as December of the previous year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Add sums two durations elementwise and carries whole years out of months.
func (d Duration) Add(other Duration) Duration {
	return Duration{
		Years:  d.Years + other.Years,
		Months: d.Months + other.Months,
		Days:   d.Days + other.Days,
	}.Normalize()
}

// Normalize carries months into years with floor division, so months land in
// [0, 11] even for transiently negative inputs.
func (d Duration) Normalize() Duration {
	carry := floorDiv(d.Months, 12)
	return Duration{
		Years:  d.Years + carry,
		Months: d.Months - carry*12,
		Days:   d.Days,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Sum folds Add over ds left to right starting from zero.
func Sum(ds ...Duration) Duration {
	var total Duration
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (d Duration) IsZero() bool { return d == Duration{} }

// ExactYears expresses d as unrounded decimal years (months/12, days/365).
// Sum these before rounding when aggregating; the triple remains the source
// of truth.
func (d Duration) ExactYears() decimal.Decimal {
	years := decimal.NewFromInt(int64(d.Years))
	months := decimal.NewFromInt(int64(d.Months)).Div(decimal.NewFromInt(12))
	days := decimal.NewFromInt(int64(d.Days)).Div(decimal.NewFromInt(365))
	return years.Add(months).Add(days)
}

// String renders d the way the profile and admin views display it,
// e.g. "3 years, 1 month, 12 days". Zero-valued parts are omitted.
func (d Duration) String() string {
	var parts []string
	if d.Years > 0 {
		parts = append(parts, plural(d.Years, "year"))
	}
	if d.Months > 0 {
		parts = append(parts, plural(d.Months, "month"))
	}
	if d.Days > 0 {
		parts = append(parts, plural(d.Days, "day"))
	}
	if len(parts) == 0 {
		return "0 days"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
