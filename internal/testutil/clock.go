package testutil

import "time"

// Now is the reference instant used by FixedClock.
var Now = time.Date(2024, time.December, 10, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
