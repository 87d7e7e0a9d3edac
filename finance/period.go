package finance

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

// ValidateAmount rejects zero, negative and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MonthKey formats the calendar month of t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthBounds returns the first and last instant of t's calendar month in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// MonthsAgo returns the first instant of the calendar month n months before
// t's month. Anchoring on the 1st keeps the 29th-31st from rolling forward.
func MonthsAgo(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// PeriodBounds returns the bounds of a whole year when month is 0, or of one month otherwise.
func PeriodBounds(year, month int, loc *time.Location) (time.Time, time.Time) {
	if month == 0 {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	}
	return MonthBounds(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc))
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// monthsBetween counts whole calendar months from a to b, ignoring days.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
