// Package services provides business logic on top of the ledger store:
// transaction mutations with balance upkeep, recurrence processing,
// budget aggregation, filtered queries, backup and integrity checks.
//
// This file implements the strategy pattern for recurring-template
// dueness. Each frequency has its own checker encapsulating the rule
// for when a template fires.
package services

import (
	"fmt"
	"time"

	"kasicka/internal/core"
)

// DuenessChecker decides whether a recurring template should fire at
// now. Implementations never backfill: a due template produces exactly
// one transaction per run.
type DuenessChecker interface {
	IsDue(template core.RecurringTemplate, now time.Time) bool
}

// WeeklyChecker fires on the template's weekday, at most once per week.
type WeeklyChecker struct{}

// IsDue returns true when now falls on the anchor weekday and at least
// seven full days have passed since the last firing.
func (WeeklyChecker) IsDue(template core.RecurringTemplate, now time.Time) bool {
	if int(now.Weekday()) != template.DayOfWeek {
		return false
	}
	if template.LastProcessed.IsZero() {
		return true
	}
	daysSince := now.Sub(template.LastProcessed).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker fires on the template's day of month, at most once per
// calendar month.
type MonthlyChecker struct{}

// IsDue returns true when now falls on the anchor day and the last
// firing was in a different month or year.
func (MonthlyChecker) IsDue(template core.RecurringTemplate, now time.Time) bool {
	if now.Day() != template.DayOfMonth {
		return false
	}
	if template.LastProcessed.IsZero() {
		return true
	}
	return template.LastProcessed.Month() != now.Month() ||
		template.LastProcessed.Year() != now.Year()
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency, or an error
// for frequencies without a registered strategy.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("%w: no dueness checker for %q", core.ErrInvalidFrequency, frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker registers a checker for a new frequency,
// allowing extension without touching the processor.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
