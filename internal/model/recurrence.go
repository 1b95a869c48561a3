package model

import (
	"fmt"
	"time"
)

// RecurrenceFrequency is the unit a recurrence interval is expressed in.
type RecurrenceFrequency string

const (
	FrequencyDaily     RecurrenceFrequency = "daily"
	FrequencyWeekly    RecurrenceFrequency = "weekly"
	FrequencyMonthly   RecurrenceFrequency = "monthly"
	FrequencyQuarterly RecurrenceFrequency = "quarterly"
	FrequencyYearly    RecurrenceFrequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f RecurrenceFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// RecurrenceRule describes how a repeating task advances when completed.
// At most one of DayOfWeek, DayOfMonth and MonthOfYear may be set, and
// it must be consistent with the frequency.
type RecurrenceRule struct {
	Frequency   RecurrenceFrequency `json:"frequency"`
	Interval    int                 `json:"interval"`
	DayOfWeek   *int                `json:"dayOfWeek,omitempty"`
	DayOfMonth  *int                `json:"dayOfMonth,omitempty"`
	MonthOfYear *int                `json:"monthOfYear,omitempty"`
}

// Validate checks the rule before it is attached to a task or used to
// advance a due date.
func (r *RecurrenceRule) Validate() error {
	if !r.Frequency.Valid() {
		return fmt.Errorf("recurrence: invalid frequency %q", r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("recurrence: interval must be >= 1, got %d", r.Interval)
	}
	constraints := 0
	if r.DayOfWeek != nil {
		constraints++
		if *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
			return fmt.Errorf("recurrence: dayOfWeek must be 0-6, got %d", *r.DayOfWeek)
		}
		if r.Frequency != FrequencyWeekly {
			return fmt.Errorf("recurrence: dayOfWeek requires weekly frequency, got %q", r.Frequency)
		}
	}
	if r.DayOfMonth != nil {
		constraints++
		if *r.DayOfMonth < 1 || *r.DayOfMonth > 31 {
			return fmt.Errorf("recurrence: dayOfMonth must be 1-31, got %d", *r.DayOfMonth)
		}
		if r.Frequency != FrequencyMonthly && r.Frequency != FrequencyQuarterly {
			return fmt.Errorf("recurrence: dayOfMonth requires monthly or quarterly frequency, got %q", r.Frequency)
		}
	}
	if r.MonthOfYear != nil {
		constraints++
		if *r.MonthOfYear < 1 || *r.MonthOfYear > 12 {
			return fmt.Errorf("recurrence: monthOfYear must be 1-12, got %d", *r.MonthOfYear)
		}
		if r.Frequency != FrequencyYearly {
			return fmt.Errorf("recurrence: monthOfYear requires yearly frequency, got %q", r.Frequency)
		}
	}
	if constraints > 1 {
		return fmt.Errorf("recurrence: at most one of dayOfWeek, dayOfMonth, monthOfYear may be set")
	}
	return nil
}

// NextAfter computes the next due date after from: it adds Interval
// units of Frequency, then moves forward to the nearest date satisfying
// the rule's constraint. The result is never before the plain
// interval-advanced date.
func (r *RecurrenceRule) NextAfter(from time.Time) time.Time {
	var next time.Time
	switch r.Frequency {
	case FrequencyDaily:
		next = from.AddDate(0, 0, r.Interval)
	case FrequencyWeekly:
		next = from.AddDate(0, 0, 7*r.Interval)
	case FrequencyMonthly:
		next = addMonthsClamped(from, r.Interval)
	case FrequencyQuarterly:
		next = addMonthsClamped(from, 3*r.Interval)
	case FrequencyYearly:
		next = addMonthsClamped(from, 12*r.Interval)
	default:
		return from
	}

	switch {
	case r.DayOfWeek != nil:
		want := time.Weekday(*r.DayOfWeek)
		for next.Weekday() != want {
			next = next.AddDate(0, 0, 1)
		}
	case r.DayOfMonth != nil:
		next = forwardToDayOfMonth(next, *r.DayOfMonth)
	case r.MonthOfYear != nil:
		next = forwardToMonth(next, time.Month(*r.MonthOfYear))
	}
	return next
}

// addMonthsClamped adds months, clamping the day to the target month's
// length instead of letting the date normalize into the following month
// (Jan 31 + 1 month is Feb 28/29, not Mar 2).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// forwardToDayOfMonth moves t forward to the nearest date whose day of
// month equals day, clamped to the month's length.
func forwardToDayOfMonth(t time.Time, day int) time.Time {
	y, m, d := t.Date()
	target := day
	if last := daysInMonth(y, m); target > last {
		target = last
	}
	if d <= target {
		return t.AddDate(0, 0, target-d)
	}
	// Target day already passed this month; use next month.
	next := addMonthsClamped(time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), 1)
	target = day
	if last := daysInMonth(next.Year(), next.Month()); target > last {
		target = last
	}
	return next.AddDate(0, 0, target-1)
}

// forwardToMonth moves t forward to the nearest date in month, keeping
// the day of month where possible.
func forwardToMonth(t time.Time, month time.Month) time.Time {
	y, m, d := t.Date()
	if m == month {
		return t
	}
	if m > month {
		y++
	}
	if last := daysInMonth(y, month); d > last {
		d = last
	}
	return time.Date(y, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
