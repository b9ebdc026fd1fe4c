package tenure

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Span is one prior-employment period. Either date may be missing.
type Span struct {
	From Date `json:"fromDate"`
	To   Date `json:"toDate"`
}

// Complete reports whether both ends of the span are known.
func (s Span) Complete() bool { return !s.From.IsZero() && !s.To.IsZero() }

// Experience is the previousExperience value of a stored document. It keeps
// the raw JSON so that a damaged value still loads with the rest of the record
// and is only rejected when the spans are actually read.
type Experience struct {
	raw json.RawMessage
}

// NewExperience encodes spans in stored order.
func NewExperience(spans []Span) Experience {
	if len(spans) == 0 {
		return Experience{}
	}
	raw, _ := json.Marshal(spans) // Span holds only Dates, which always marshal
	return Experience{raw: raw}
}

// RawExperience wraps a previousExperience value exactly as stored.
func RawExperience(raw []byte) Experience {
	return Experience{raw: append(json.RawMessage(nil), raw...)}
}

// Spans decodes the stored value. A list decodes in order, a single object
// is a list of one, and null or absent is empty. Anything else, or a date
// field that is not a string, is ErrMalformedExperience.
func (e Experience) Spans() ([]Span, error) {
	data := bytes.TrimSpace(e.raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var spans []Span
		if err := json.Unmarshal(data, &spans); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedExperience, err)
		}
		return spans, nil
	case '{':
		var span Span
		if err := json.Unmarshal(data, &span); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedExperience, err)
		}
		return []Span{span}, nil
	default:
		return nil, fmt.Errorf("%w: got %s", ErrMalformedExperience, truncate(data))
	}
}

func (e Experience) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(e.raw)) == 0 {
		return []byte("[]"), nil
	}
	return e.raw, nil
}

func (e *Experience) UnmarshalJSON(data []byte) error {
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}
