/*
Package tenure derives calendar durations from employee record dates.

PURPOSE:
  Computes age, current tenure and prior-experience totals from the dates
  stored on an employee record. Everything here is pure: the caller passes
  "today" in, nothing reads the wall clock, nothing touches storage.

KEY CONCEPTS:
  - Date:       calendar date without time of day; zero value means "no value"
  - Duration:   {years, months, days} span from field subtraction with borrow
  - Span:       one prior-employment period (fromDate, toDate)
  - Annotation: the derived fields attached to a record on every read

PIPELINE:
  ParseDate -> Between (per span) -> Duration.Add (fold) -> Compose

INPUT FORMATS:
  Dates arrive as "YYYY-MM-DD" from HTML date inputs, as RFC 3339 timestamps
  from stored documents, or as "DD-MM-YYYY" typed by hand. ISO-like layouts
  are always tried first, so "2024-05-03" is never read as day-month-year.

SEE ALSO:
  - duration.go: Calculator and aggregator
  - compose.go:  Derived-field composer
*/
package tenure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// =============================================================================
// DATE - Calendar date, no time of day
// =============================================================================

// Date is a calendar date normalized to midnight UTC.
// The zero Date stands for a missing or unparseable value.
type Date struct {
	Time time.Time
}

// NewDate builds a Date from its calendar fields.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(isoDate)
}

// =============================================================================
// PARSER
// =============================================================================

const isoDate = "2006-01-02"

// isoLayouts are tried in order before the day-first fallback.
var isoLayouts = []string{
	isoDate,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var dayFirstPattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)

// ParseDate normalizes a textual date. Blank input and unparseable input both
// yield ok=false; only the latter is logged.
func ParseDate(input string) (Date, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Date{}, false
	}

	if d, ok := parseISO(s); ok {
		return d, true
	}

	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		if d, ok := parseISO(m[3] + "-" + m[2] + "-" + m[1]); ok {
			return d, true
		}
	}

	log.Warn().Str("input", input).Msg("failed to parse date string")
	return Date{}, false
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(input string) Date {
	d, ok := ParseDate(input)
	if !ok {
		panic(fmt.Sprintf("tenure: invalid date literal %q", input))
	}
	return d
}

func parseISO(s string) (Date, bool) {
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Timestamps carry a zone; the stored calendar day is the UTC one.
		return DateOf(t.UTC()), true
	}
	return Date{}, false
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON writes "YYYY-MM-DD", or null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a string in any format ParseDate understands, or null.
// Unparseable strings decode to the zero Date; any other JSON type is a
// malformed document.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if data[0] != '"' {
		return fmt.Errorf("%w: got %s", ErrMalformedDate, truncate(data))
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}
	parsed, _ := ParseDate(s)
	*d = parsed
	return nil
}

func truncate(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
