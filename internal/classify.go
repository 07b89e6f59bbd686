package internal

import (
	"math"
	"time"
)

// tierThresholds is evaluated in order; the first entry with DaysUntil <= maxDays wins.
// Anything beyond the last entry is TierNormal.
var tierThresholds = []struct {
	maxDays int
	tier    Tier
}{
	{-1, TierOverdue},
	{1, TierDueImmediately},
	{3, TierUrgent},
	{7, TierUpcomingWeek},
}

// UpcomingWindowDays is the largest DaysUntil that still counts as an upcoming renewal
var UpcomingWindowDays = tierThresholds[len(tierThresholds)-1].maxDays

// TierFor buckets a day count into an urgency tier
func TierFor(daysUntil int) Tier {
	for _, th := range tierThresholds {
		if daysUntil <= th.maxDays {
			return th.tier
		}
	}
	return TierNormal
}

// DaysBetween returns the whole days from reference to date, rounded up, on date-only values.
func DaysBetween(referenceDate, date time.Time) int {
	diff := DateOf(date).Sub(DateOf(referenceDate))
	return int(math.Ceil(diff.Hours() / 24))
}

// Classify computes days until a renewal and its urgency tier
func Classify(renewalDate, referenceDate time.Time) Classification {
	days := DaysBetween(referenceDate, renewalDate)
	return Classification{DaysUntil: days, Tier: TierFor(days)}
}

// RenewalGroup is the coarse grouping used when listing renewals
type RenewalGroup string

const (
	GroupUrgent   RenewalGroup = "urgent"   // 3 days or less, including overdue
	GroupUpcoming RenewalGroup = "upcoming" // 4-7 days
	GroupNormal   RenewalGroup = "normal"   // more than 7 days
)

// Group maps a tier to its listing group
func (t Tier) Group() RenewalGroup {
	switch t {
	case TierOverdue, TierDueImmediately, TierUrgent:
		return GroupUrgent
	case TierUpcomingWeek:
		return GroupUpcoming
	default:
		return GroupNormal
	}
}

// Assess projects (if needed) and classifies the renewal of a subscription
func Assess(sub Subscription, referenceDate time.Time) RenewalAssessment {
	renewal := renewalDateOf(sub, referenceDate)
	c := Classify(renewal, referenceDate)
	return RenewalAssessment{
		SubscriptionID:   sub.ID,
		Name:             sub.Name,
		RenewalDate:      renewal,
		Cost:             sub.Cost,
		BillingCycle:     sub.BillingCycle,
		DaysUntilRenewal: c.DaysUntil,
		Tier:             c.Tier,
	}
}

// CountTiers counts assessments per tier
func CountTiers(assessments []RenewalAssessment) map[Tier]int {
	counts := make(map[Tier]int)
	for _, a := range assessments {
		counts[a.Tier]++
	}
	return counts
}

// CountGroups counts assessments per listing group
func CountGroups(assessments []RenewalAssessment) map[RenewalGroup]int {
	counts := make(map[RenewalGroup]int)
	for _, a := range assessments {
		counts[a.Tier.Group()]++
	}
	return counts
}
