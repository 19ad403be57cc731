package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by availability windows.
const DateLayout = "2006-01-02"

// DefaultEndDate closes every window stamped by the updater unless configured otherwise.
const DefaultEndDate = "2030-12-30"

// AvailabilityField is the record key holding the availability window.
const AvailabilityField = "availability"

// Availability is the window during which a car can be booked.
type Availability struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsAvailable bool   `json:"isAvailable"`
}

// NewAvailability builds an open window starting on the calendar day of
// runDate, evaluated in runDate's own location.
func NewAvailability(runDate time.Time, endDate string) Availability {
	return Availability{
		StartDate:   runDate.Format(DateLayout),
		EndDate:     endDate,
		IsAvailable: true,
	}
}

// ParseDate parses a YYYY-MM-DD string in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Covers returns true if the car is available for the whole [from, to]
// range. Comparison is done on calendar days, both ends inclusive.
func (a Availability) Covers(from, to time.Time) bool {
	if !a.IsAvailable {
		return false
	}
	start, err := ParseDate(a.StartDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(a.EndDate)
	if err != nil {
		return false
	}
	from = truncateDay(from)
	to = truncateDay(to)
	return !from.Before(start) && !to.After(end) && !to.Before(from)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
