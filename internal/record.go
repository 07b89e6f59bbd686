package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// idNamespace scopes generated subscription IDs
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gigurra/subscription-tracker"))

// Record is a subscription as read from a source file, before validation.
// Optional prices are nil when absent.
type Record struct {
	ID           string           `json:"id,omitempty"`
	Name         string           `json:"name"`
	BillingCycle string           `json:"billing_cycle"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price,omitempty"`
	YearlyPrice  *decimal.Decimal `json:"yearly_price,omitempty"`
	StartDate    string           `json:"start_date"` // YYYY-MM-DD
	Category     string           `json:"category,omitempty"`
	Active       *bool            `json:"active,omitempty"` // defaults to true

	// Err is set by parsers when a cell could not be read
	Err error `json:"-"`
}

// ToSubscription converts and validates a record.
// When cost is omitted it is taken from the price matching the billing cycle.
func (r Record) ToSubscription() (Subscription, error) {
	if r.Err != nil {
		return Subscription{}, r.Err
	}
	name := strings.TrimSpace(r.Name)

	cycle, err := ParseBillingCycle(r.BillingCycle)
	if err != nil {
		return Subscription{}, &ValidationError{Record: name, Field: "billing_cycle", Reason: fmt.Sprintf("unknown value %q", r.BillingCycle)}
	}

	var start time.Time
	if strings.TrimSpace(r.StartDate) != "" {
		start, err = parseDate(r.StartDate)
		if err != nil {
			return Subscription{}, &ValidationError{Record: name, Field: "start_date", Reason: fmt.Sprintf("unparseable date %q", r.StartDate)}
		}
	}

	pricing := NewPricing(r.MonthlyPrice, r.YearlyPrice)

	var cost decimal.Decimal
	if r.Cost != nil {
		cost = *r.Cost
	} else if price, ok := pricing.PriceFor(cycle); ok {
		cost = price
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewSHA1(idNamespace, []byte(name+"|"+start.Format(DateLayout))).String()
	}

	sub := Subscription{
		ID:           id,
		Name:         name,
		BillingCycle: cycle,
		Cost:         cost,
		Pricing:      pricing,
		StartDate:    start,
		Category:     strings.TrimSpace(r.Category),
		Active:       active,
	}

	if err := Validate(sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// dateLayouts are tried in order when parsing dates from files
var dateLayouts = []string{DateLayout, "01-02-06", "1/2/2006", "2006/01/02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseOptionalDecimal parses an amount cell; empty means absent.
// Decimal commas are accepted. When both ',' and '.' appear, the last one is
// the decimal separator and the other groups thousands ("1,234.56", "1.234,56").
func parseOptionalDecimal(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	raw := s
	switch comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, "."); {
	case comma >= 0 && dot > comma:
		s = strings.ReplaceAll(s, ",", "")
	case dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("unparseable amount %q", raw)}
	}
	return &d, nil
}

// parseOptionalBool parses an active flag; empty means absent
func parseOptionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return nil, nil
	case "yes", "y":
		v := true
		return &v, nil
	case "no", "n":
		v := false
		return &v, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, &ValidationError{Field: "active", Reason: fmt.Sprintf("unparseable flag %q", s)}
	}
	return &v, nil
}

// recordFromColumns builds a Record from string cells keyed by header name.
// Used by the tabular parsers (csv, xlsx). Unreadable cells are reported via Record.Err.
func recordFromColumns(cols map[string]string) Record {
	rec := Record{
		ID:           cols["id"],
		Name:         cols["name"],
		BillingCycle: cols["billing_cycle"],
		StartDate:    cols["start_date"],
		Category:     cols["category"],
	}

	var err error
	if rec.Cost, err = parseOptionalDecimal("cost", cols["cost"]); err != nil {
		rec.Err = withRecord(err, rec.Name)
		return rec
	}
	if rec.MonthlyPrice, err = parseOptionalDecimal("monthly_price", cols["monthly_price"]); err != nil {
		rec.Err = withRecord(err, rec.Name)
		return rec
	}
	if rec.YearlyPrice, err = parseOptionalDecimal("yearly_price", cols["yearly_price"]); err != nil {
		rec.Err = withRecord(err, rec.Name)
		return rec
	}
	if rec.Active, err = parseOptionalBool(cols["active"]); err != nil {
		rec.Err = withRecord(err, rec.Name)
	}
	return rec
}

func withRecord(err error, name string) error {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Record == "" {
		ve.Record = strings.TrimSpace(name)
	}
	return err
}

// normalizeHeader maps "Billing Cycle" and "billing-cycle" to "billing_cycle"
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}
