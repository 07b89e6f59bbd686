package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := pricedSub("Netflix", CycleMonthly, "15.99", "159.99")

	tests := []struct {
		name      string
		modify    func(s *Subscription)
		wantField string
	}{
		{"valid", func(s *Subscription) {}, ""},
		{"empty name", func(s *Subscription) { s.Name = "  " }, "name"},
		{"long name", func(s *Subscription) { s.Name = strings.Repeat("a", 201) }, "name"},
		{"name at limit", func(s *Subscription) { s.Name = strings.Repeat("a", 200) }, ""},
		{"long category", func(s *Subscription) { s.Category = strings.Repeat("c", 51) }, "category"},
		{"unknown cycle", func(s *Subscription) { s.BillingCycle = "weekly" }, "billing_cycle"},
		{"missing start", func(s *Subscription) { s.StartDate = date("0001-01-01") }, "start_date"},
		{"no pricing", func(s *Subscription) { s.Pricing = Pricing{} }, "pricing"},
		{"zero monthly price", func(s *Subscription) { s.Pricing = BothPrices(dec("0"), dec("159.99")) }, "monthly_price"},
		{"negative yearly price", func(s *Subscription) { s.Pricing = BothPrices(dec("15.99"), dec("-1")) }, "yearly_price"},
		{"missing price for cycle", func(s *Subscription) { s.Pricing = YearlyOnly(dec("159.99")) }, "pricing"},
		{"cost mismatch", func(s *Subscription) { s.Cost = dec("14.99") }, "cost"},
		{"cost matching with trailing zero", func(s *Subscription) { s.Cost = dec("15.990") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			tt.modify(&sub)

			err := Validate(sub)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", ve.Field, tt.wantField, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("validation errors should wrap ErrInvalidInput")
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Record: "Netflix", Field: "cost", Reason: "must be greater than 0"}
	if got := err.Error(); got != "Netflix: invalid cost: must be greater than 0" {
		t.Errorf("Error() = %q", got)
	}

	err = &ValidationError{Field: "cost", Reason: "must be greater than 0"}
	if got := err.Error(); got != "invalid cost: must be greater than 0" {
		t.Errorf("Error() = %q", got)
	}
}
