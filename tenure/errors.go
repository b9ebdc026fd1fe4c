package tenure

import "errors"

var (
	// ErrMalformedDate is returned when a date field holds a JSON value that is
	// neither a string nor null.
	ErrMalformedDate = errors.New("malformed date value")

	// ErrMalformedExperience is returned when previousExperience is not a
	// list, a single entry or null.
	ErrMalformedExperience = errors.New("malformed previous experience")
)
