// Package clock abstracts the time source so streak and combo arithmetic is
// deterministic in tests.
package clock

import (
	"math"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock implementation used outside tests.
func System() Clock { return systemClock{} }

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}

// DaysBetween returns the number of whole calendar days from a to b,
// negative when b is earlier. Rounding absorbs DST shifts.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Midnight(b).Sub(Midnight(a)).Hours() / 24))
}
