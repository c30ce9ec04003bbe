package attendance

import "errors"

var (
	// ErrTooEarly rejects check-ins before the permitted opening hour.
	ErrTooEarly = errors.New("check-in not open yet")

	// ErrInvalidDay rejects vacation requests outside the seven weekdays.
	ErrInvalidDay = errors.New("invalid vacation day")
)
