package internal

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Analyze compares each active subscription's billing cycle against the alternative cycle.
// Only subscriptions with both a monthly and a yearly price take part.
func Analyze(subs []Subscription) SavingsReport {
	report := SavingsReport{
		Recommended:                       []SavingsOpportunity{},
		Penalizing:                        []SavingsOpportunity{},
		TotalMonthlySavingsAvailable:      decimal.Zero,
		TotalYearlySavingsAvailable:       decimal.Zero,
		TotalYearlyCostIncreaseIfSwitched: decimal.Zero,
	}

	for _, sub := range subs {
		if !sub.Active || sub.Pricing.Kind() != PricingBoth {
			continue
		}
		report.HasPricingData = true

		opp, ok := compareCycles(sub)
		if !ok {
			continue
		}

		switch opp.Direction {
		case DirectionRecommended:
			report.Recommended = append(report.Recommended, opp)
			report.TotalMonthlySavingsAvailable = report.TotalMonthlySavingsAvailable.Add(opp.MonthlyDelta)
			report.TotalYearlySavingsAvailable = report.TotalYearlySavingsAvailable.Add(opp.YearlyDelta)
		case DirectionPenalizing:
			report.Penalizing = append(report.Penalizing, opp)
			report.TotalYearlyCostIncreaseIfSwitched = report.TotalYearlyCostIncreaseIfSwitched.Add(opp.YearlyDelta.Abs())
		}
	}

	sortOpportunities(report.Recommended)
	sortOpportunities(report.Penalizing)
	report.HasSavings = report.TotalMonthlySavingsAvailable.IsPositive()

	return report
}

// compareCycles computes the effect of switching a subscription to its alternative cycle.
// Returns false when both cycles cost the same per year.
func compareCycles(sub Subscription) (SavingsOpportunity, bool) {
	monthlyPrice, _ := sub.Pricing.Monthly()
	yearlyPrice, _ := sub.Pricing.Yearly()

	onMonthly := Equivalents(monthlyPrice, CycleMonthly)
	onYearly := Equivalents(yearlyPrice, CycleYearly)

	current, alternative := onMonthly, onYearly
	if sub.BillingCycle == CycleYearly {
		current, alternative = onYearly, onMonthly
	}

	delta := current.Yearly.Sub(alternative.Yearly)
	if delta.IsZero() {
		return SavingsOpportunity{}, false
	}

	direction := DirectionRecommended
	if delta.IsNegative() {
		direction = DirectionPenalizing
	}

	return SavingsOpportunity{
		SubscriptionID:               sub.ID,
		Name:                         sub.Name,
		CurrentCycle:                 sub.BillingCycle,
		AlternativeCycle:             sub.BillingCycle.Alternative(),
		CurrentMonthlyEquivalent:     current.Monthly,
		AlternativeMonthlyEquivalent: alternative.Monthly,
		YearlyDelta:                  delta,
		MonthlyDelta:                 delta.Div(monthsPerYear),
		DeltaPercentage:              percentOf(delta, current.Yearly),
		Direction:                    direction,
	}, true
}

// sortOpportunities orders by absolute yearly delta (largest first), then by name
func sortOpportunities(opps []SavingsOpportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if c := opps[i].YearlyDelta.Abs().Cmp(opps[j].YearlyDelta.Abs()); c != 0 {
			return c > 0
		}
		return strings.ToLower(opps[i].Name) < strings.ToLower(opps[j].Name)
	})
}
