package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/staff-registry/tenure"
)

const dateFormatHint = "Please use ISO (YYYY-MM-DD) or DD-MM-YYYY."

// SpanInput is one previous-experience entry as submitted.
type SpanInput struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// ExperienceInput is a submitted previousExperience value. Set is false when
// the field was absent, which on update means "keep the stored list".
type ExperienceInput struct {
	Entries []SpanInput
	Set     bool
}

// Experience builds a present ExperienceInput.
func Experience(entries ...SpanInput) ExperienceInput {
	return ExperienceInput{Entries: entries, Set: true}
}

// UnmarshalJSON accepts a list, a single entry (a list of one) or null
// (an empty list).
func (e *ExperienceInput) UnmarshalJSON(data []byte) error {
	e.Set = true
	e.Entries = nil

	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '{':
		var one SpanInput
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		e.Entries = []SpanInput{one}
		return nil
	default:
		return json.Unmarshal(data, &e.Entries)
	}
}

// DateInput gathers the date fields of a create or update request.
type DateInput struct {
	DateOfBirth        string
	DateOfJoining      string
	PreviousExperience ExperienceInput
}

// ParsedDates is the normalized result of ValidateDates.
type ParsedDates struct {
	DateOfBirth        tenure.Date
	DateOfJoining      tenure.Date
	PreviousExperience []tenure.Span
}

// ValidateDates parses and cross-checks the dates of a request.
//
// For updates, existing is the stored record: blank birth/joining dates fall
// back to it, and an absent previousExperience re-validates the stored list
// against the (possibly new) joining date. Entries with neither date are
// dropped; entries with one date are rejected.
func ValidateDates(in DateInput, existing *Employee) (ParsedDates, error) {
	dob, _ := tenure.ParseDate(in.DateOfBirth)
	doj, _ := tenure.ParseDate(in.DateOfJoining)

	if existing != nil {
		if isBlank(in.DateOfBirth) {
			dob = existing.DateOfBirth
		}
		if isBlank(in.DateOfJoining) {
			doj = existing.DateOfJoining
		}
	}

	if !isBlank(in.DateOfBirth) && dob.IsZero() {
		return ParsedDates{}, invalid("dateOfBirth", "Invalid Date of Birth format. %s", dateFormatHint)
	}
	if !isBlank(in.DateOfJoining) && doj.IsZero() {
		return ParsedDates{}, invalid("dateOfJoining", "Invalid Date of Joining format. %s", dateFormatHint)
	}

	entries := in.PreviousExperience.Entries
	if existing != nil && !in.PreviousExperience.Set {
		stored, err := storedEntries(existing)
		if err != nil {
			return ParsedDates{}, err
		}
		entries = stored
	}

	spans := make([]tenure.Span, 0, len(entries))
	for i, entry := range entries {
		n := i + 1
		from, _ := tenure.ParseDate(entry.FromDate)
		to, _ := tenure.ParseDate(entry.ToDate)

		if (!isBlank(entry.FromDate) && from.IsZero()) || (!isBlank(entry.ToDate) && to.IsZero()) {
			return ParsedDates{}, invalid("previousExperience", "Invalid date format in Previous Experience entry %d. %s", n, dateFormatHint)
		}

		switch {
		case !from.IsZero() && !to.IsZero():
			if from.After(to) {
				return ParsedDates{}, invalid("previousExperience", `Previous Experience "From Date" cannot be after "To Date" in entry %d.`, n)
			}
			if !doj.IsZero() && to.After(doj) {
				return ParsedDates{}, invalid("previousExperience", `Previous Experience "To Date" in entry %d cannot be after Date of Joining.`, n)
			}
			spans = append(spans, tenure.Span{From: from, To: to})
		case !from.IsZero() || !to.IsZero():
			return ParsedDates{}, invalid("previousExperience", `Both "From Date" and "To Date" are required for Previous Experience entry %d, if either is provided.`, n)
		}
	}

	return ParsedDates{
		DateOfBirth:        dob,
		DateOfJoining:      doj,
		PreviousExperience: spans,
	}, nil
}

func storedEntries(e *Employee) ([]SpanInput, error) {
	spans, err := e.PreviousExperience.Spans()
	if err != nil {
		return nil, &ValidationError{
			Field:   "previousExperience",
			Message: fmt.Sprintf("Stored Previous Experience is unreadable (%v). Please resubmit all entries.", err),
		}
	}
	entries := make([]SpanInput, len(spans))
	for i, s := range spans {
		entries[i] = SpanInput{FromDate: s.From.String(), ToDate: s.To.String()}
	}
	return entries, nil
}

// validateRequired checks the fields every stored record must have.
func validateRequired(e Employee) error {
	required := []struct {
		field string
		value string
	}{
		{"userId", e.UserID},
		{"fullName", e.FullName},
		{"designation", e.Designation},
		{"department", e.Department},
		{"educationalQualifications.ug", e.Education.UG},
		{"educationalQualifications.pg", e.Education.PG},
		{"educationalQualifications.phd", e.Education.PhD},
	}
	for _, r := range required {
		if isBlank(r.value) {
			return invalid(r.field, "Validation error: %s is required", r.field)
		}
	}
	if e.DateOfBirth.IsZero() {
		return invalid("dateOfBirth", "Validation error: dateOfBirth is required")
	}
	if e.DateOfJoining.IsZero() {
		return invalid("dateOfJoining", "Validation error: dateOfJoining is required")
	}
	if !e.Role.Valid() {
		return invalid("role", "Role must be either employee or admin.")
	}
	return nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
