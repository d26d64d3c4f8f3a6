package services

import (
	"testing"
	"time"

	"kasicka/internal/core"

	"github.com/shopspring/decimal"
)

func weeklyTemplate(dayOfWeek int, lastProcessed time.Time) core.RecurringTemplate {
	return core.RecurringTemplate{
		Type:          core.Expense,
		Amount:        decimal.NewFromInt(100),
		CategoryID:    1,
		AccountID:     1,
		Frequency:     core.Weekly,
		DayOfWeek:     dayOfWeek,
		Active:        true,
		LastProcessed: lastProcessed,
	}
}

func monthlyTemplate(dayOfMonth int, lastProcessed time.Time) core.RecurringTemplate {
	return core.RecurringTemplate{
		Type:          core.Expense,
		Amount:        decimal.NewFromInt(100),
		CategoryID:    1,
		AccountID:     1,
		Frequency:     core.Monthly,
		DayOfMonth:    dayOfMonth,
		Active:        true,
		LastProcessed: lastProcessed,
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}

	// 2024-03-04 and 2024-03-11 are Mondays.
	monday := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		dayOfWeek     int
		lastProcessed time.Time
		now           time.Time
		want          bool
	}{
		{
			name:      "never processed on anchor weekday - due",
			dayOfWeek: 1,
			now:       monday,
			want:      true,
		},
		{
			name:          "processed previous monday - due again",
			dayOfWeek:     1,
			lastProcessed: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			now:           monday,
			want:          true,
		},
		{
			name:          "processed earlier the same day - not due",
			dayOfWeek:     1,
			lastProcessed: time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC),
			now:           monday,
			want:          false,
		},
		{
			name:          "wrong weekday - not due",
			dayOfWeek:     3,
			lastProcessed: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			now:           monday,
			want:          false,
		},
		{
			name:          "six days since last firing - not due",
			dayOfWeek:     1,
			lastProcessed: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			now:           monday,
			want:          false,
		},
		{
			name:      "sunday anchor uses weekday zero",
			dayOfWeek: 0,
			now:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(weeklyTemplate(tt.dayOfWeek, tt.lastProcessed), tt.now)
			if got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name          string
		dayOfMonth    int
		lastProcessed time.Time
		now           time.Time
		want          bool
	}{
		{
			name:       "never processed on anchor day - due",
			dayOfMonth: 15,
			now:        time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			want:       true,
		},
		{
			name:          "processed january, now february 15th - due",
			dayOfMonth:    15,
			lastProcessed: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC),
			want:          true,
		},
		{
			name:          "processed this month - not due",
			dayOfMonth:    15,
			lastProcessed: time.Date(2024, 2, 15, 7, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC),
			want:          false,
		},
		{
			name:          "wrong day of month - not due",
			dayOfMonth:    15,
			lastProcessed: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 16, 9, 0, 0, 0, time.UTC),
			want:          false,
		},
		{
			name:          "same month last year - due",
			dayOfMonth:    15,
			lastProcessed: time.Date(2023, 2, 15, 9, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC),
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(monthlyTemplate(tt.dayOfMonth, tt.lastProcessed), tt.now)
			if got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	if _, err := GetDuenessChecker(core.Weekly); err != nil {
		t.Errorf("GetDuenessChecker(weekly) error = %v", err)
	}
	if _, err := GetDuenessChecker(core.Monthly); err != nil {
		t.Errorf("GetDuenessChecker(monthly) error = %v", err)
	}
	if _, err := GetDuenessChecker(core.Frequency("daily")); err == nil {
		t.Error("GetDuenessChecker(daily) expected error")
	}
}
