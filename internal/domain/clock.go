package domain

import "time"

// Clock supplies "today" for date-relative computations. Recurrence and
// overdue calculations must never read the system clock directly so they
// stay deterministic under test.
type Clock interface {
	Today() time.Time
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current instant in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the current date in UTC, truncated to midnight.
func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock is a Clock pinned to a single date, for tests.
type FixedClock struct {
	Date time.Time
}

// Now returns the pinned date.
func (c FixedClock) Now() time.Time { return c.Date }

// Today returns the pinned date truncated to midnight UTC.
func (c FixedClock) Today() time.Time {
	return time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, time.UTC)
}
