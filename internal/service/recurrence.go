package service

import (
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
)

// InitialOccurrence computes the first occurrence date for a new schedule.
// The reference is startDate when it lies in the future, otherwise today;
// the result is never on or before today. Weekly schedules walk forward to
// the anchor weekday (0=Sunday, defaulting to the reference's weekday);
// monthly schedules clamp the anchor day to the target month's length.
// Unknown frequencies fall back to reference+1 day; CreateRecurring rejects
// them up front, so hitting the fallback means bad data in the store.
func InitialOccurrence(frequency domain.Frequency, startDate, today time.Time, dayOfMonth, dayOfWeek *int) time.Time {
	ref := truncateToDay(today)
	start := truncateToDay(startDate)
	if start.After(ref) {
		ref = start
	}

	switch frequency {
	case domain.FrequencyDaily:
		return ref.AddDate(0, 0, 1)

	case domain.FrequencyWeekly:
		target := int(ref.Weekday())
		if dayOfWeek != nil {
			target = *dayOfWeek
		}
		next := ref
		for int(next.Weekday()) != target {
			next = next.AddDate(0, 0, 1)
		}
		if !next.After(truncateToDay(today)) {
			next = next.AddDate(0, 0, 7)
		}
		return next

	case domain.FrequencyMonthly:
		target := ref.Day()
		if dayOfMonth != nil {
			target = *dayOfMonth
		}
		next := withClampedDay(ref.Year(), ref.Month(), target)
		if !next.After(truncateToDay(today)) {
			year, month := yearMonthAfter(next.Year(), next.Month())
			next = withClampedDay(year, month, target)
		}
		return next

	case domain.FrequencyYearly:
		next := withClampedDay(ref.Year(), start.Month(), start.Day())
		if !next.After(truncateToDay(today)) {
			next = withClampedDay(next.Year()+1, start.Month(), start.Day())
		}
		return next

	default:
		return ref.AddDate(0, 0, 1)
	}
}

// AdvanceOccurrence moves an already-firing schedule's cursor forward by
// exactly one period from its current nextOccurrence. No catch-up against
// today happens here; monthly advancement re-clamps the anchor day for
// short months and yearly advancement clamps Feb 29.
func AdvanceOccurrence(frequency domain.Frequency, nextOccurrence time.Time, dayOfMonth *int) time.Time {
	next := truncateToDay(nextOccurrence)

	switch frequency {
	case domain.FrequencyDaily:
		return next.AddDate(0, 0, 1)

	case domain.FrequencyWeekly:
		return next.AddDate(0, 0, 7)

	case domain.FrequencyMonthly:
		target := next.Day()
		if dayOfMonth != nil {
			target = *dayOfMonth
		}
		year, month := yearMonthAfter(next.Year(), next.Month())
		return withClampedDay(year, month, target)

	case domain.FrequencyYearly:
		return withClampedDay(next.Year()+1, next.Month(), next.Day())

	default:
		return next.AddDate(0, 0, 1)
	}
}

// ValidateAnchors checks the optional weekly/monthly anchors.
func ValidateAnchors(dayOfMonth, dayOfWeek *int) error {
	if dayOfMonth != nil && (*dayOfMonth < 1 || *dayOfMonth > 31) {
		return domain.ErrInvalidDayOfMonth
	}
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return domain.ErrInvalidDayOfWeek
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the length of the given month, via day 0 of the next.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func yearMonthAfter(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func withClampedDay(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
