package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format used in files, config and output
const DateLayout = "2006-01-02"

// DefaultCategory is used for subscriptions without a category
const DefaultCategory = "Uncategorized"

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// ParseBillingCycle parses a billing cycle name (case-insensitive)
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CycleMonthly):
		return CycleMonthly, nil
	case string(CycleYearly):
		return CycleYearly, nil
	}
	return "", fmt.Errorf("%w: unknown billing cycle %q", ErrInvalidInput, s)
}

func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Alternative returns the other billing cycle
func (c BillingCycle) Alternative() BillingCycle {
	if c == CycleMonthly {
		return CycleYearly
	}
	return CycleMonthly
}

type PricingKind int

const (
	PricingNone PricingKind = iota
	PricingMonthlyOnly
	PricingYearlyOnly
	PricingBoth
)

// Pricing holds the price options known for a subscription.
// Construct it with MonthlyOnly, YearlyOnly or BothPrices; the zero value has no prices.
type Pricing struct {
	kind    PricingKind
	monthly decimal.Decimal
	yearly  decimal.Decimal
}

func MonthlyOnly(monthly decimal.Decimal) Pricing {
	return Pricing{kind: PricingMonthlyOnly, monthly: monthly}
}

func YearlyOnly(yearly decimal.Decimal) Pricing {
	return Pricing{kind: PricingYearlyOnly, yearly: yearly}
}

func BothPrices(monthly, yearly decimal.Decimal) Pricing {
	return Pricing{kind: PricingBoth, monthly: monthly, yearly: yearly}
}

// NewPricing builds a Pricing from optional prices
func NewPricing(monthly, yearly *decimal.Decimal) Pricing {
	switch {
	case monthly != nil && yearly != nil:
		return BothPrices(*monthly, *yearly)
	case monthly != nil:
		return MonthlyOnly(*monthly)
	case yearly != nil:
		return YearlyOnly(*yearly)
	}
	return Pricing{}
}

func (p Pricing) Kind() PricingKind {
	return p.kind
}

// Monthly returns the monthly price, if known
func (p Pricing) Monthly() (decimal.Decimal, bool) {
	if p.kind == PricingMonthlyOnly || p.kind == PricingBoth {
		return p.monthly, true
	}
	return decimal.Zero, false
}

// Yearly returns the yearly price, if known
func (p Pricing) Yearly() (decimal.Decimal, bool) {
	if p.kind == PricingYearlyOnly || p.kind == PricingBoth {
		return p.yearly, true
	}
	return decimal.Zero, false
}

// PriceFor returns the price for the given cycle, if known
func (p Pricing) PriceFor(cycle BillingCycle) (decimal.Decimal, bool) {
	if cycle == CycleMonthly {
		return p.Monthly()
	}
	return p.Yearly()
}

type Subscription struct {
	ID           string
	Name         string
	Description  string
	Tags         []string
	BillingCycle BillingCycle
	Cost         decimal.Decimal
	Pricing      Pricing
	StartDate    time.Time
	RenewalDate  time.Time // zero until projected or overridden
	Category     string
	Active       bool
}

// CategoryOrDefault returns the category, or DefaultCategory when empty
func (s Subscription) CategoryOrDefault() string {
	if strings.TrimSpace(s.Category) == "" {
		return DefaultCategory
	}
	return s.Category
}

type Tier int

const (
	TierOverdue Tier = iota
	TierDueImmediately
	TierUrgent
	TierUpcomingWeek
	TierNormal
)

var tierNames = map[Tier]string{
	TierOverdue:        "overdue",
	TierDueImmediately: "due",
	TierUrgent:         "urgent",
	TierUpcomingWeek:   "upcoming",
	TierNormal:         "normal",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Classification is the result of classifying a single renewal date
type Classification struct {
	DaysUntil int
	Tier      Tier
}

type RenewalAssessment struct {
	SubscriptionID   string
	Name             string
	RenewalDate      time.Time
	Cost             decimal.Decimal
	BillingCycle     BillingCycle
	DaysUntilRenewal int
	Tier             Tier
}

type Direction string

const (
	DirectionRecommended Direction = "recommended"
	DirectionPenalizing  Direction = "penalizing"
)

type SavingsOpportunity struct {
	SubscriptionID               string
	Name                         string
	CurrentCycle                 BillingCycle
	AlternativeCycle             BillingCycle
	CurrentMonthlyEquivalent     decimal.Decimal
	AlternativeMonthlyEquivalent decimal.Decimal
	YearlyDelta                  decimal.Decimal // positive when switching saves money
	MonthlyDelta                 decimal.Decimal
	DeltaPercentage              decimal.Decimal
	Direction                    Direction
}

type SavingsReport struct {
	Recommended                       []SavingsOpportunity
	Penalizing                        []SavingsOpportunity
	TotalMonthlySavingsAvailable      decimal.Decimal
	TotalYearlySavingsAvailable       decimal.Decimal
	TotalYearlyCostIncreaseIfSwitched decimal.Decimal
	HasSavings                        bool
	HasPricingData                    bool
}

// CycleTotals sums native costs of subscriptions billed on one cycle
type CycleTotals struct {
	Count int
	Cost  decimal.Decimal
}

// BillingComparison compares what the portfolio costs per cycle and
// what it would cost if everything was billed on one cycle
type BillingComparison struct {
	Monthly           CycleTotals
	Yearly            CycleTotals
	TotalIfAllMonthly decimal.Decimal // yearly amount, monthly prices x 12
	TotalIfAllYearly  decimal.Decimal
}

type PortfolioStats struct {
	TotalMonthlyCost                 decimal.Decimal
	TotalYearlyCost                  decimal.Decimal
	ActiveCount                      int
	CategoryBreakdown                map[string]decimal.Decimal // native costs, not cycle-normalized
	TotalSpentSinceFirstSubscription decimal.Decimal
	DaysSinceFirstSubscription       int
	UpcomingRenewals                 []RenewalAssessment
	TierCounts                       map[Tier]int
	BillingComparison                BillingComparison
}
