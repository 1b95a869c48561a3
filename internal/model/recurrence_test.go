package model

import (
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    RecurrenceRule
		wantErr bool
	}{
		{"monthly default", RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1}, false},
		{"weekly with day of week", RecurrenceRule{Frequency: FrequencyWeekly, Interval: 2, DayOfWeek: intPtr(5)}, false},
		{"monthly with day of month", RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(31)}, false},
		{"quarterly with day of month", RecurrenceRule{Frequency: FrequencyQuarterly, Interval: 1, DayOfMonth: intPtr(1)}, false},
		{"yearly with month of year", RecurrenceRule{Frequency: FrequencyYearly, Interval: 1, MonthOfYear: intPtr(4)}, false},
		{"unknown frequency", RecurrenceRule{Frequency: "fortnightly", Interval: 1}, true},
		{"zero interval", RecurrenceRule{Frequency: FrequencyDaily, Interval: 0}, true},
		{"negative interval", RecurrenceRule{Frequency: FrequencyDaily, Interval: -1}, true},
		{"day of week out of range", RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1, DayOfWeek: intPtr(7)}, true},
		{"day of week on monthly", RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfWeek: intPtr(1)}, true},
		{"day of month out of range", RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(32)}, true},
		{"day of month on weekly", RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1, DayOfMonth: intPtr(10)}, true},
		{"month of year out of range", RecurrenceRule{Frequency: FrequencyYearly, Interval: 1, MonthOfYear: intPtr(13)}, true},
		{"month of year on monthly", RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, MonthOfYear: intPtr(6)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurrenceNextAfter(t *testing.T) {
	tests := []struct {
		name string
		rule RecurrenceRule
		from time.Time
		want time.Time
	}{
		{
			"daily interval 3",
			RecurrenceRule{Frequency: FrequencyDaily, Interval: 3},
			date(2024, time.January, 15),
			date(2024, time.January, 18),
		},
		{
			"weekly interval 1",
			RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1},
			date(2024, time.January, 15),
			date(2024, time.January, 22),
		},
		{
			"monthly interval 1",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1},
			date(2024, time.January, 15),
			date(2024, time.February, 15),
		},
		{
			"monthly clamps to short month",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1},
			date(2024, time.January, 31),
			date(2024, time.February, 29),
		},
		{
			"quarterly interval 1",
			RecurrenceRule{Frequency: FrequencyQuarterly, Interval: 1},
			date(2024, time.January, 15),
			date(2024, time.April, 15),
		},
		{
			"yearly interval 1",
			RecurrenceRule{Frequency: FrequencyYearly, Interval: 1},
			date(2024, time.March, 10),
			date(2025, time.March, 10),
		},
		{
			// 2024-01-22 is a Monday; the nearest Friday is the 26th.
			"weekly constrained to friday",
			RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1, DayOfWeek: intPtr(5)},
			date(2024, time.January, 15),
			date(2024, time.January, 26),
		},
		{
			"weekly constraint already satisfied",
			RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1, DayOfWeek: intPtr(1)},
			date(2024, time.January, 15),
			date(2024, time.January, 22),
		},
		{
			// Advancing to Feb 15 then forward to day 1 lands on Mar 1,
			// never backward to Feb 1.
			"day of month constraint moves forward only",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(1)},
			date(2024, time.January, 15),
			date(2024, time.March, 1),
		},
		{
			"day of month constraint within month",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(28)},
			date(2024, time.January, 15),
			date(2024, time.February, 28),
		},
		{
			"day of month 31 clamps in february",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(31)},
			date(2024, time.January, 10),
			date(2024, time.February, 29),
		},
		{
			"month of year constraint rolls to next year",
			RecurrenceRule{Frequency: FrequencyYearly, Interval: 1, MonthOfYear: intPtr(4)},
			date(2024, time.June, 10),
			date(2026, time.April, 10),
		},
		{
			"month of year constraint already satisfied",
			RecurrenceRule{Frequency: FrequencyYearly, Interval: 1, MonthOfYear: intPtr(6)},
			date(2024, time.June, 10),
			date(2025, time.June, 10),
		},
		{
			"monthly interval 2",
			RecurrenceRule{Frequency: FrequencyMonthly, Interval: 2},
			date(2024, time.November, 30),
			date(2025, time.January, 30),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.NextAfter(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextAfter(%s) = %s, want %s", tt.from.Format(time.DateOnly), got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestRecurrenceNextAfterNeverBackward(t *testing.T) {
	rules := []RecurrenceRule{
		{Frequency: FrequencyDaily, Interval: 1},
		{Frequency: FrequencyWeekly, Interval: 1, DayOfWeek: intPtr(0)},
		{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(15)},
		{Frequency: FrequencyYearly, Interval: 1, MonthOfYear: intPtr(1)},
	}
	from := date(2024, time.July, 31)
	for _, rule := range rules {
		if next := rule.NextAfter(from); !next.After(from) {
			t.Errorf("rule %+v: NextAfter(%s) = %s, not after input", rule, from, next)
		}
	}
}
