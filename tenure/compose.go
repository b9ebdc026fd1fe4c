package tenure

import (
	"github.com/rs/zerolog/log"
)

// =============================================================================
// COMPOSER - Derived fields for one record
// =============================================================================

// Subject is the part of an employee record the composer reads.
type Subject interface {
	BirthDate() Date
	JoiningDate() Date
	PriorSpans() ([]Span, error)
}

// Identified subjects get their id attached to composer diagnostics.
type Identified interface {
	SubjectID() string
}

// Interval is a span together with its own computed duration.
type Interval struct {
	Span
	Duration
}

// Annotation holds the derived fields. None of it is persisted; it is
// recomputed on every read because "today" moves.
type Annotation struct {
	TotalAge                Duration
	CurrentExperience       Duration
	TotalPreviousExperience Duration
	TotalExperience         Duration
	PreviousExperience      []Interval
}

// Compose derives the annotation for s as of today. It never fails: a record
// whose nested data cannot be read still renders, with zeroed durations and
// an empty interval list, and the fault is logged.
func Compose(s Subject, today Date) Annotation {
	a, err := compute(s, today)
	if err != nil {
		ev := log.Error().Err(err)
		if id, ok := s.(Identified); ok {
			ev = ev.Str("user_id", id.SubjectID())
		}
		ev.Msg("derived fields unavailable, serving zero durations")
		return Annotation{PreviousExperience: []Interval{}}
	}
	return a
}

func compute(s Subject, today Date) (Annotation, error) {
	spans, err := s.PriorSpans()
	if err != nil {
		return Annotation{}, err
	}

	current := Between(s.JoiningDate(), today)

	intervals := make([]Interval, 0, len(spans))
	var previous Duration
	for _, span := range spans {
		var d Duration
		if span.Complete() {
			d = Between(span.From, span.To)
		}
		previous = previous.Add(d)
		intervals = append(intervals, Interval{Span: span, Duration: d})
	}

	return Annotation{
		TotalAge:                Between(s.BirthDate(), today),
		CurrentExperience:       current,
		TotalPreviousExperience: previous,
		TotalExperience:         current.Add(previous),
		PreviousExperience:      intervals,
	}, nil
}
