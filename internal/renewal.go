package internal

import (
	"time"
)

// DateOf strips time of day and location, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthsPerCycle returns the cycle length in calendar months
func monthsPerCycle(cycle BillingCycle) int {
	if cycle == CycleYearly {
		return 12
	}
	return 1
}

// AddCycles moves a date n billing cycles forward.
// If the day does not exist in the target month, it is clamped to the month's last day,
// so 2024-01-31 + 1 month is 2024-02-29 and 2024-02-29 + 1 year is 2025-02-28.
func AddCycles(date time.Time, cycle BillingCycle, n int) time.Time {
	y, m, d := DateOf(date).Date()

	firstOfTarget := time.Date(y, m+time.Month(n*monthsPerCycle(cycle)), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}

// nextCycleIndex returns the smallest n >= 1 such that startDate + n cycles is after referenceDate.
// Candidates are always computed from startDate so clamped days never drift.
func nextCycleIndex(startDate time.Time, cycle BillingCycle, referenceDate time.Time) int {
	start := DateOf(startDate)
	ref := DateOf(referenceDate)

	// Skip ahead close to the reference date; candidates grow monotonically with n
	monthsBetween := (ref.Year()-start.Year())*12 + int(ref.Month()-start.Month())
	n := monthsBetween/monthsPerCycle(cycle) - 1
	if n < 1 {
		n = 1
	}

	for !AddCycles(start, cycle, n).After(ref) {
		n++
	}
	return n
}

// NextRenewal returns the first renewal of a subscription strictly after referenceDate.
// The first renewal is one cycle after startDate; comparison is date-only.
func NextRenewal(startDate time.Time, cycle BillingCycle, referenceDate time.Time) time.Time {
	return AddCycles(startDate, cycle, nextCycleIndex(startDate, cycle, referenceDate))
}

// CompletedCycles returns how many renewals happened on or before referenceDate.
func CompletedCycles(startDate time.Time, cycle BillingCycle, referenceDate time.Time) int {
	return nextCycleIndex(startDate, cycle, referenceDate) - 1
}

// Project returns copies of the subscriptions with RenewalDate filled in where it is not already set.
func Project(subs []Subscription, referenceDate time.Time) []Subscription {
	result := make([]Subscription, len(subs))
	for i, sub := range subs {
		result[i] = sub
		if sub.RenewalDate.IsZero() {
			result[i].RenewalDate = NextRenewal(sub.StartDate, sub.BillingCycle, referenceDate)
		}
	}
	return result
}

// renewalDateOf returns the stored renewal date, or projects one
func renewalDateOf(sub Subscription, referenceDate time.Time) time.Time {
	if !sub.RenewalDate.IsZero() {
		return DateOf(sub.RenewalDate)
	}
	return NextRenewal(sub.StartDate, sub.BillingCycle, referenceDate)
}

// ApplyRenewalOverride sets a manually chosen renewal date.
// Dates before referenceDate are rejected.
func ApplyRenewalOverride(sub Subscription, renewalDate time.Time, referenceDate time.Time) (Subscription, error) {
	date := DateOf(renewalDate)
	if date.Before(DateOf(referenceDate)) {
		return sub, &ValidationError{Record: sub.Name, Field: "renewal_date", Reason: "renewal date cannot be in the past"}
	}
	sub.RenewalDate = date
	return sub, nil
}
