package internal

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 200
	MaxCategoryLength = 50
)

// Validate checks that a subscription satisfies the data model invariants.
// It returns a *ValidationError for the first violated rule.
func Validate(sub Subscription) error {
	invalid := func(field, reason string) error {
		return &ValidationError{Record: sub.Name, Field: field, Reason: reason}
	}

	name := strings.TrimSpace(sub.Name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name", "longer than 200 characters")
	}
	if utf8.RuneCountInString(sub.Category) > MaxCategoryLength {
		return invalid("category", "longer than 50 characters")
	}
	if !sub.BillingCycle.Valid() {
		return invalid("billing_cycle", "must be monthly or yearly")
	}
	if sub.StartDate.IsZero() {
		return invalid("start_date", "missing")
	}

	if sub.Pricing.Kind() == PricingNone {
		return invalid("pricing", "at least one of monthly_price or yearly_price is required")
	}
	if m, ok := sub.Pricing.Monthly(); ok && !m.IsPositive() {
		return invalid("monthly_price", "must be greater than 0")
	}
	if y, ok := sub.Pricing.Yearly(); ok && !y.IsPositive() {
		return invalid("yearly_price", "must be greater than 0")
	}

	price, ok := sub.Pricing.PriceFor(sub.BillingCycle)
	if !ok {
		return invalid("pricing", string(sub.BillingCycle)+" price is required when billing cycle is "+string(sub.BillingCycle))
	}
	if !sub.Cost.IsPositive() {
		return invalid("cost", "must be greater than 0")
	}
	if !sub.Cost.Equal(price) {
		return invalid("cost", "must equal the "+string(sub.BillingCycle)+" price "+price.String())
	}

	return nil
}
