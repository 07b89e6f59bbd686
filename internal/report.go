package internal

import (
	"sort"
	"strings"
	"time"
)

// Report is the result of one computation pass over a subscription snapshot.
// Every component sees the same reference date.
type Report struct {
	ReferenceDate time.Time
	Subscriptions []Subscription        // with RenewalDate projected
	Renewals      []RenewalAssessment   // active subscriptions, soonest first
	Savings       SavingsReport
	Stats         PortfolioStats
	Categories    []string
}

// BuildReport runs all computations over subs using referenceDate as "now".
// The input slice is not modified.
func BuildReport(subs []Subscription, referenceDate time.Time) Report {
	ref := DateOf(referenceDate)
	projected := Project(subs, ref)

	renewals := []RenewalAssessment{}
	for _, sub := range projected {
		if sub.Active {
			renewals = append(renewals, Assess(sub, ref))
		}
	}
	sort.SliceStable(renewals, func(i, j int) bool {
		if renewals[i].DaysUntilRenewal != renewals[j].DaysUntilRenewal {
			return renewals[i].DaysUntilRenewal < renewals[j].DaysUntilRenewal
		}
		return strings.ToLower(renewals[i].Name) < strings.ToLower(renewals[j].Name)
	})

	return Report{
		ReferenceDate: ref,
		Subscriptions: projected,
		Renewals:      renewals,
		Savings:       Analyze(projected),
		Stats:         Aggregate(projected, ref),
		Categories:    Categories(projected),
	}
}
