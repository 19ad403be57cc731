package availability

import (
	"time"

	"github.com/kilianp07/caravail/core/model"
)

// Check returns the cars whose current window covers [from, to]. Records
// without a window, or with one that does not decode, are left out.
func Check(cars []model.Car, from, to time.Time) []model.Car {
	var out []model.Car
	for _, c := range cars {
		a, ok, err := c.Availability()
		if !ok || err != nil {
			continue
		}
		if a.Covers(from, to) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultBookingWindow is the window used when none is requested: from the
// calendar day of now to the next one.
func DefaultBookingWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
