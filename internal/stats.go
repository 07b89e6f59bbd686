package internal

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate rolls a subscription collection up into portfolio statistics.
// Totals, category breakdown and renewals cover active subscriptions only;
// spending history covers all of them.
//
// CategoryBreakdown sums each subscription's native Cost, so monthly and yearly
// amounts are mixed within a category. Only TotalMonthlyCost and TotalYearlyCost
// are cycle-normalized.
func Aggregate(subs []Subscription, referenceDate time.Time) PortfolioStats {
	ref := DateOf(referenceDate)

	stats := PortfolioStats{
		TotalMonthlyCost:                 decimal.Zero,
		TotalYearlyCost:                  decimal.Zero,
		CategoryBreakdown:                make(map[string]decimal.Decimal),
		TotalSpentSinceFirstSubscription: decimal.Zero,
		UpcomingRenewals:                 []RenewalAssessment{},
		BillingComparison:                CompareBilling(subs),
	}

	// Native sums per cycle, converted once so yearly costs are divided by 12 only once
	monthlyNative, yearlyNative := decimal.Zero, decimal.Zero

	var assessments []RenewalAssessment
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		stats.ActiveCount++

		if sub.BillingCycle == CycleYearly {
			yearlyNative = yearlyNative.Add(sub.Cost)
		} else {
			monthlyNative = monthlyNative.Add(sub.Cost)
		}

		category := sub.CategoryOrDefault()
		stats.CategoryBreakdown[category] = stats.CategoryBreakdown[category].Add(sub.Cost)

		assessments = append(assessments, Assess(sub, ref))
	}

	onMonthly := Equivalents(monthlyNative, CycleMonthly)
	onYearly := Equivalents(yearlyNative, CycleYearly)
	stats.TotalMonthlyCost = onMonthly.Monthly.Add(onYearly.Monthly)
	stats.TotalYearlyCost = onMonthly.Yearly.Add(onYearly.Yearly)

	stats.TierCounts = CountTiers(assessments)
	stats.UpcomingRenewals = UpcomingRenewals(assessments)
	stats.TotalSpentSinceFirstSubscription, stats.DaysSinceFirstSubscription = spendingHistory(subs, ref)

	return stats
}

// UpcomingRenewals returns assessments due within the upcoming window (overdue included),
// soonest first.
func UpcomingRenewals(assessments []RenewalAssessment) []RenewalAssessment {
	upcoming := []RenewalAssessment{}
	for _, a := range assessments {
		if a.Tier != TierNormal {
			upcoming = append(upcoming, a)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].DaysUntilRenewal != upcoming[j].DaysUntilRenewal {
			return upcoming[i].DaysUntilRenewal < upcoming[j].DaysUntilRenewal
		}
		return strings.ToLower(upcoming[i].Name) < strings.ToLower(upcoming[j].Name)
	})
	return upcoming
}

// spendingHistory sums cost times completed renewals for every subscription,
// and counts days since the earliest start date.
func spendingHistory(subs []Subscription, ref time.Time) (decimal.Decimal, int) {
	total := decimal.Zero
	if len(subs) == 0 {
		return total, 0
	}

	first := DateOf(subs[0].StartDate)
	for _, sub := range subs {
		start := DateOf(sub.StartDate)
		if start.Before(first) {
			first = start
		}
		cycles := CompletedCycles(start, sub.BillingCycle, ref)
		total = total.Add(sub.Cost.Mul(decimal.NewFromInt(int64(cycles))))
	}

	days := DaysBetween(first, ref)
	if days < 0 {
		days = 0
	}
	return total, days
}

// CompareBilling splits active subscriptions by billing cycle and computes what the
// portfolio would cost per year if everything was on one cycle.
func CompareBilling(subs []Subscription) BillingComparison {
	comparison := BillingComparison{
		Monthly:           CycleTotals{Cost: decimal.Zero},
		Yearly:            CycleTotals{Cost: decimal.Zero},
		TotalIfAllMonthly: decimal.Zero,
		TotalIfAllYearly:  decimal.Zero,
	}
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		totals := &comparison.Monthly
		if sub.BillingCycle == CycleYearly {
			totals = &comparison.Yearly
		}
		totals.Count++
		totals.Cost = totals.Cost.Add(sub.Cost)

		if m, ok := sub.Pricing.Monthly(); ok {
			comparison.TotalIfAllMonthly = comparison.TotalIfAllMonthly.Add(m.Mul(monthsPerYear))
		}
		if y, ok := sub.Pricing.Yearly(); ok {
			comparison.TotalIfAllYearly = comparison.TotalIfAllYearly.Add(y)
		}
	}
	return comparison
}

// Categories returns the distinct categories of active subscriptions, sorted
func Categories(subs []Subscription) []string {
	seen := make(map[string]bool)
	var result []string
	for _, sub := range subs {
		if !sub.Active || strings.TrimSpace(sub.Category) == "" {
			continue
		}
		if !seen[sub.Category] {
			seen[sub.Category] = true
			result = append(result, sub.Category)
		}
	}
	sort.Strings(result)
	return result
}

// FilterOptions narrows a subscription list; empty fields match everything
type FilterOptions struct {
	Category string
	Cycle    BillingCycle
	Tags     []string
}

// Filter returns the subscriptions matching all given options
func Filter(subs []Subscription, opts FilterOptions) []Subscription {
	var result []Subscription
	for _, sub := range subs {
		if opts.Category != "" && !strings.EqualFold(sub.CategoryOrDefault(), opts.Category) {
			continue
		}
		if opts.Cycle != "" && sub.BillingCycle != opts.Cycle {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(sub.Tags, opts.Tags) {
			continue
		}
		result = append(result, sub)
	}
	return result
}

func hasAnyTag(subTags []string, filterTags []string) bool {
	for _, ft := range filterTags {
		for _, st := range subTags {
			if strings.EqualFold(st, ft) {
				return true
			}
		}
	}
	return false
}
