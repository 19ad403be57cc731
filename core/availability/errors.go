package availability

import "errors"

var (
	// ErrInput is returned when the car file is missing, unreadable or not a
	// sequence of records.
	ErrInput = errors.New("input error")
	// ErrOutput is returned when the car file cannot be written.
	ErrOutput = errors.New("output error")
)
