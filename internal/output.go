package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// Report sections selectable with --show
const (
	ShowAll           = "all"
	ShowSubscriptions = "subscriptions"
	ShowRenewals      = "renewals"
	ShowSavings       = "savings"
	ShowStats         = "stats"
)

// OutputOptions controls how reports are displayed
type OutputOptions struct {
	Show      string
	SortField string
	SortDir   string
	Currency  Currency
}

func (o OutputOptions) shows(section string) bool {
	return o.Show == "" || o.Show == ShowAll || o.Show == section
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	ReferenceDate string             `json:"reference_date"`
	Currency      string             `json:"currency"`
	Subscriptions []JSONSubscription `json:"subscriptions,omitempty"`
	Renewals      []JSONRenewal      `json:"renewals,omitempty"`
	Savings       *JSONSavings       `json:"savings,omitempty"`
	Stats         *JSONStats         `json:"stats,omitempty"`
}

// JSONSubscription is the JSON output format for a subscription
type JSONSubscription struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	Category          string           `json:"category"`
	BillingCycle      string           `json:"billing_cycle"`
	Cost              decimal.Decimal  `json:"cost"`
	MonthlyPrice      *decimal.Decimal `json:"monthly_price,omitempty"`
	YearlyPrice       *decimal.Decimal `json:"yearly_price,omitempty"`
	MonthlyEquivalent decimal.Decimal  `json:"monthly_equivalent_cost"`
	YearlyEquivalent  decimal.Decimal  `json:"yearly_equivalent_cost"`
	StartDate         string           `json:"start_date"`
	RenewalDate       string           `json:"renewal_date"`
	DaysUntilRenewal  int              `json:"days_until_renewal"`
	Tier              string           `json:"tier"`
	Active            bool             `json:"active"`
}

// JSONRenewal is the JSON output format for a renewal assessment
type JSONRenewal struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	RenewalDate      string          `json:"renewal_date"`
	Cost             decimal.Decimal `json:"cost"`
	BillingCycle     string          `json:"billing_cycle"`
	DaysUntilRenewal int             `json:"days_until_renewal"`
	Tier             string          `json:"tier"`
	Group            string          `json:"group"`
}

// JSONOpportunity is the JSON output format for a savings opportunity
type JSONOpportunity struct {
	ID                           string          `json:"id"`
	Name                         string          `json:"name"`
	CurrentCycle                 string          `json:"current_cycle"`
	AlternativeCycle             string          `json:"alternative_cycle"`
	CurrentMonthlyEquivalent     decimal.Decimal `json:"current_monthly_equivalent"`
	AlternativeMonthlyEquivalent decimal.Decimal `json:"alternative_monthly_equivalent"`
	YearlyDelta                  decimal.Decimal `json:"yearly_delta"`
	MonthlyDelta                 decimal.Decimal `json:"monthly_delta"`
	DeltaPercentage              decimal.Decimal `json:"delta_percentage"`
	Direction                    string          `json:"direction"`
}

// JSONSavings contains the savings analysis
type JSONSavings struct {
	Recommended             []JSONOpportunity `json:"recommended"`
	Penalizing              []JSONOpportunity `json:"penalizing"`
	TotalMonthlySavings     decimal.Decimal   `json:"total_monthly_savings"`
	TotalYearlySavings      decimal.Decimal   `json:"total_yearly_savings"`
	TotalYearlyCostIncrease decimal.Decimal   `json:"total_yearly_cost_increase"`
	HasSavings              bool              `json:"has_savings"`
	HasPricingData          bool              `json:"has_pricing_data"`
}

// JSONCycleTotals is the JSON output format for per-cycle totals
type JSONCycleTotals struct {
	Count int             `json:"count"`
	Cost  decimal.Decimal `json:"cost"`
}

// JSONStats contains aggregate statistics
type JSONStats struct {
	TotalMonthlyCost           decimal.Decimal            `json:"total_monthly_cost"`
	TotalYearlyCost            decimal.Decimal            `json:"total_yearly_cost"`
	ActiveCount                int                        `json:"total_active_subscriptions"`
	CategoryBreakdown          map[string]decimal.Decimal `json:"category_breakdown"`
	Categories                 []string                   `json:"categories"`
	TotalSpent                 decimal.Decimal            `json:"total_spent"`
	DaysSinceFirstSubscription int                        `json:"time_since_first_subscription"`
	TierCounts                 map[string]int             `json:"tier_counts"`
	UpcomingRenewals           []JSONRenewal              `json:"upcoming_renewals"`
	Monthly                    JSONCycleTotals            `json:"monthly_billed"`
	Yearly                     JSONCycleTotals            `json:"yearly_billed"`
	TotalIfAllMonthly          decimal.Decimal            `json:"total_if_all_monthly"`
	TotalIfAllYearly           decimal.Decimal            `json:"total_if_all_yearly"`
}

// money rounds an amount for presentation
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func toJSONRenewal(a RenewalAssessment) JSONRenewal {
	return JSONRenewal{
		ID:               a.SubscriptionID,
		Name:             a.Name,
		RenewalDate:      a.RenewalDate.Format(DateLayout),
		Cost:             money(a.Cost),
		BillingCycle:     string(a.BillingCycle),
		DaysUntilRenewal: a.DaysUntilRenewal,
		Tier:             a.Tier.String(),
		Group:            string(a.Tier.Group()),
	}
}

func toJSONOpportunities(opps []SavingsOpportunity) []JSONOpportunity {
	result := []JSONOpportunity{}
	for _, o := range opps {
		result = append(result, JSONOpportunity{
			ID:                           o.SubscriptionID,
			Name:                         o.Name,
			CurrentCycle:                 string(o.CurrentCycle),
			AlternativeCycle:             string(o.AlternativeCycle),
			CurrentMonthlyEquivalent:     money(o.CurrentMonthlyEquivalent),
			AlternativeMonthlyEquivalent: money(o.AlternativeMonthlyEquivalent),
			YearlyDelta:                  money(o.YearlyDelta),
			MonthlyDelta:                 money(o.MonthlyDelta),
			DeltaPercentage:              o.DeltaPercentage.Round(2),
			Direction:                    string(o.Direction),
		})
	}
	return result
}

func optionalPrice(d decimal.Decimal, ok bool) *decimal.Decimal {
	if !ok {
		return nil
	}
	return &d
}

// BuildJSONOutput converts a report into its JSON representation
func BuildJSONOutput(report Report, opts OutputOptions) JSONOutput {
	output := JSONOutput{
		ReferenceDate: report.ReferenceDate.Format(DateLayout),
		Currency:      opts.Currency.Code,
	}

	if opts.shows(ShowSubscriptions) {
		subs := sortSubscriptions(report.Subscriptions, opts)
		output.Subscriptions = []JSONSubscription{}
		for _, sub := range subs {
			eq := Equivalents(sub.Cost, sub.BillingCycle)
			c := Classify(sub.RenewalDate, report.ReferenceDate)
			output.Subscriptions = append(output.Subscriptions, JSONSubscription{
				ID:                sub.ID,
				Name:              sub.Name,
				Description:       sub.Description,
				Tags:              sub.Tags,
				Category:          sub.CategoryOrDefault(),
				BillingCycle:      string(sub.BillingCycle),
				Cost:              money(sub.Cost),
				MonthlyPrice:      optionalPrice(sub.Pricing.Monthly()),
				YearlyPrice:       optionalPrice(sub.Pricing.Yearly()),
				MonthlyEquivalent: money(eq.Monthly),
				YearlyEquivalent:  money(eq.Yearly),
				StartDate:         sub.StartDate.Format(DateLayout),
				RenewalDate:       sub.RenewalDate.Format(DateLayout),
				DaysUntilRenewal:  c.DaysUntil,
				Tier:              c.Tier.String(),
				Active:            sub.Active,
			})
		}
	}

	if opts.shows(ShowRenewals) {
		output.Renewals = []JSONRenewal{}
		for _, a := range report.Renewals {
			output.Renewals = append(output.Renewals, toJSONRenewal(a))
		}
	}

	if opts.shows(ShowSavings) {
		s := report.Savings
		output.Savings = &JSONSavings{
			Recommended:             toJSONOpportunities(s.Recommended),
			Penalizing:              toJSONOpportunities(s.Penalizing),
			TotalMonthlySavings:     money(s.TotalMonthlySavingsAvailable),
			TotalYearlySavings:      money(s.TotalYearlySavingsAvailable),
			TotalYearlyCostIncrease: money(s.TotalYearlyCostIncreaseIfSwitched),
			HasSavings:              s.HasSavings,
			HasPricingData:          s.HasPricingData,
		}
	}

	if opts.shows(ShowStats) {
		st := report.Stats
		breakdown := make(map[string]decimal.Decimal, len(st.CategoryBreakdown))
		for k, v := range st.CategoryBreakdown {
			breakdown[k] = money(v)
		}
		tiers := make(map[string]int, len(st.TierCounts))
		for k, v := range st.TierCounts {
			tiers[k.String()] = v
		}
		upcoming := []JSONRenewal{}
		for _, a := range st.UpcomingRenewals {
			upcoming = append(upcoming, toJSONRenewal(a))
		}
		categories := report.Categories
		if categories == nil {
			categories = []string{}
		}
		output.Stats = &JSONStats{
			TotalMonthlyCost:           money(st.TotalMonthlyCost),
			TotalYearlyCost:            money(st.TotalYearlyCost),
			ActiveCount:                st.ActiveCount,
			CategoryBreakdown:          breakdown,
			Categories:                 categories,
			TotalSpent:                 money(st.TotalSpentSinceFirstSubscription),
			DaysSinceFirstSubscription: st.DaysSinceFirstSubscription,
			TierCounts:                 tiers,
			UpcomingRenewals:           upcoming,
			Monthly:                    JSONCycleTotals{Count: st.BillingComparison.Monthly.Count, Cost: money(st.BillingComparison.Monthly.Cost)},
			Yearly:                     JSONCycleTotals{Count: st.BillingComparison.Yearly.Count, Cost: money(st.BillingComparison.Yearly.Cost)},
			TotalIfAllMonthly:          money(st.BillingComparison.TotalIfAllMonthly),
			TotalIfAllYearly:           money(st.BillingComparison.TotalIfAllYearly),
		}
	}

	return output
}

// PrintJSON outputs the report in JSON format
func PrintJSON(w io.Writer, report Report, opts OutputOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSONOutput(report, opts))
}

// sortSubscriptions returns a sorted copy according to the output options
func sortSubscriptions(subs []Subscription, opts OutputOptions) []Subscription {
	sorted := make([]Subscription, len(subs))
	copy(sorted, subs)

	less := func(a, b Subscription) bool {
		switch opts.SortField {
		case "cost":
			return Equivalents(a.Cost, a.BillingCycle).Monthly.LessThan(Equivalents(b.Cost, b.BillingCycle).Monthly)
		case "renewal":
			return a.RenewalDate.Before(b.RenewalDate)
		default: // "name"
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if opts.SortDir == "desc" {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// tierColors maps urgency tiers to display colors
var tierColors = map[Tier]text.Color{
	TierOverdue:        text.FgRed,
	TierDueImmediately: text.FgHiRed,
	TierUrgent:         text.FgYellow,
	TierUpcomingWeek:   text.FgCyan,
	TierNormal:         text.FgGreen,
}

// describeDays renders a day count the way the renewal list shows it
func describeDays(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days remaining", days)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.Style().Title.Format = text.FormatDefault
	return t
}

// PrintTables outputs the selected report sections as formatted tables
func PrintTables(w io.Writer, report Report, opts OutputOptions) {
	fmt.Fprintf(w, "Reference date: %s\n\n", report.ReferenceDate.Format(DateLayout))

	if opts.shows(ShowSubscriptions) {
		PrintSubscriptionsTable(w, report, opts)
	}
	if opts.shows(ShowRenewals) {
		PrintRenewalsTable(w, report.Stats.UpcomingRenewals, opts.Currency)
	}
	if opts.shows(ShowSavings) {
		PrintSavingsTable(w, report.Savings, opts.Currency)
	}
	if opts.shows(ShowStats) {
		PrintStatsTable(w, report, opts.Currency)
	}
}

// PrintSubscriptionsTable outputs subscriptions as a formatted table
func PrintSubscriptionsTable(w io.Writer, report Report, opts OutputOptions) {
	subs := sortSubscriptions(report.Subscriptions, opts)

	activeCount := 0
	for _, sub := range subs {
		if sub.Active {
			activeCount++
		}
	}
	fmt.Fprintf(w, "Subscriptions: %d (%d active, %d inactive)\n", len(subs), activeCount, len(subs)-activeCount)

	// Check which optional columns to show
	hasDescriptions, hasTags := false, false
	for _, sub := range subs {
		hasDescriptions = hasDescriptions || sub.Description != ""
		hasTags = hasTags || len(sub.Tags) > 0
	}

	t := newTable(w)

	header := table.Row{"Name"}
	if hasDescriptions {
		header = append(header, "Description")
	}
	if hasTags {
		header = append(header, "Tags")
	}
	header = append(header, "Category", "Cycle", "Cost", "Started", "Renews", "Monthly", "Yearly")
	t.AppendHeader(header)

	for _, sub := range subs {
		eq := Equivalents(sub.Cost, sub.BillingCycle)
		c := Classify(sub.RenewalDate, report.ReferenceDate)

		renews := tierColors[c.Tier].Sprint(sub.RenewalDate.Format(DateLayout))
		monthlyStr := opts.Currency.Format(eq.Monthly)
		yearlyStr := opts.Currency.Format(eq.Yearly)
		if !sub.Active {
			renews = text.FgHiBlack.Sprint("inactive")
			monthlyStr = text.FgHiBlack.Sprint("-")
			yearlyStr = text.FgHiBlack.Sprint("-")
		}

		row := table.Row{sub.Name}
		if hasDescriptions {
			row = append(row, sub.Description)
		}
		if hasTags {
			row = append(row, strings.Join(sub.Tags, ", "))
		}
		row = append(row, sub.CategoryOrDefault(), string(sub.BillingCycle), opts.Currency.Format(sub.Cost),
			sub.StartDate.Format(DateLayout), renews, monthlyStr, yearlyStr)
		t.AppendRow(row)
	}

	t.AppendSeparator()

	footer := table.Row{""}
	if hasDescriptions {
		footer = append(footer, "")
	}
	if hasTags {
		footer = append(footer, "")
	}
	footer = append(footer, "", "", "", "", text.Bold.Sprint("Total (active)"),
		text.Bold.Sprint(opts.Currency.Format(report.Stats.TotalMonthlyCost)),
		text.Bold.Sprint(opts.Currency.Format(report.Stats.TotalYearlyCost)))
	t.AppendFooter(footer)

	// Right-align Monthly and Yearly columns (last two)
	colCount := len(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: colCount - 1, Align: text.AlignRight},
		{Number: colCount, Align: text.AlignRight},
	})

	t.Render()
	fmt.Fprintln(w)
}

// PrintRenewalsTable outputs upcoming renewals grouped by urgency
func PrintRenewalsTable(w io.Writer, renewals []RenewalAssessment, cur Currency) {
	if len(renewals) == 0 {
		fmt.Fprintf(w, "No upcoming renewals in the next %d days!\n\n", UpcomingWindowDays)
		return
	}

	groups := CountGroups(renewals)
	fmt.Fprintf(w, "Upcoming renewals: %d urgent, %d this week\n", groups[GroupUrgent], groups[GroupUpcoming])

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Renews", "When", "Cost", "Cycle", "Status"})
	for _, a := range renewals {
		color := tierColors[a.Tier]
		t.AppendRow(table.Row{
			a.Name,
			a.RenewalDate.Format(DateLayout),
			color.Sprint(describeDays(a.DaysUntilRenewal)),
			cur.Format(a.Cost),
			string(a.BillingCycle),
			color.Sprint(strings.ToUpper(a.Tier.String())),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
	fmt.Fprintln(w)
}

// PrintSavingsTable outputs billing-cycle switch recommendations
func PrintSavingsTable(w io.Writer, report SavingsReport, cur Currency) {
	if !report.HasPricingData {
		fmt.Fprintln(w, "Savings: no pricing data.")
		fmt.Fprintln(w, "Add both monthly_price and yearly_price to your subscriptions for accurate savings calculations.")
		fmt.Fprintln(w)
		return
	}

	if report.HasSavings {
		fmt.Fprintf(w, "Potential savings: %s/month, %s/year\n",
			cur.Format(report.TotalMonthlySavingsAvailable), cur.Format(report.TotalYearlySavingsAvailable))
		for _, o := range report.Recommended {
			if o.CurrentCycle == CycleYearly {
				fmt.Fprintln(w, "Includes switching yearly plans to monthly where twelve monthly payments cost less.")
				break
			}
		}
	} else {
		fmt.Fprintln(w, "You're already on the best billing cycle for every subscription.")
	}

	if len(report.Recommended) > 0 {
		t := newTable(w)
		t.SetTitle("Switch billing cycle")
		t.AppendHeader(table.Row{"Name", "Switch", "Now /mo", "After /mo", "Saves /mo", "Saves /yr", "%"})
		for _, o := range report.Recommended {
			t.AppendRow(table.Row{
				o.Name,
				fmt.Sprintf("%s → %s", o.CurrentCycle, o.AlternativeCycle),
				cur.Format(o.CurrentMonthlyEquivalent),
				cur.Format(o.AlternativeMonthlyEquivalent),
				text.FgGreen.Sprint(cur.Format(o.MonthlyDelta)),
				text.FgGreen.Sprint(cur.Format(o.YearlyDelta)),
				cur.FormatPercent(o.DeltaPercentage),
			})
		}
		t.Render()
	}

	if len(report.Penalizing) > 0 {
		t := newTable(w)
		t.SetTitle("Keep current billing cycle")
		t.AppendHeader(table.Row{"Name", "Current", "Extra cost if switched /mo", "Extra cost /yr"})
		for _, o := range report.Penalizing {
			t.AppendRow(table.Row{
				o.Name,
				string(o.CurrentCycle),
				text.FgRed.Sprint(cur.FormatSigned(o.MonthlyDelta.Neg())),
				text.FgRed.Sprint(cur.FormatSigned(o.YearlyDelta.Neg())),
			})
		}
		t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Total"), text.Bold.Sprint(cur.FormatSigned(report.TotalYearlyCostIncreaseIfSwitched))})
		t.Render()
	}
	fmt.Fprintln(w)
}

// PrintStatsTable outputs portfolio totals and the category breakdown
func PrintStatsTable(w io.Writer, report Report, cur Currency) {
	st := report.Stats

	fmt.Fprintf(w, "Active subscriptions: %d\n", st.ActiveCount)
	fmt.Fprintf(w, "Total cost: %s/month, %s/year\n", cur.Format(st.TotalMonthlyCost), cur.Format(st.TotalYearlyCost))
	if st.DaysSinceFirstSubscription > 0 {
		fmt.Fprintf(w, "Spent since first subscription: %s in %d days\n", cur.Format(st.TotalSpentSinceFirstSubscription), st.DaysSinceFirstSubscription)
	}

	if len(st.CategoryBreakdown) > 0 {
		categories := make([]string, 0, len(st.CategoryBreakdown))
		total := decimal.Zero
		for name, amount := range st.CategoryBreakdown {
			categories = append(categories, name)
			total = total.Add(amount)
		}
		sort.Slice(categories, func(i, j int) bool {
			a, b := st.CategoryBreakdown[categories[i]], st.CategoryBreakdown[categories[j]]
			if !a.Equal(b) {
				return a.GreaterThan(b)
			}
			return categories[i] < categories[j]
		})

		t := newTable(w)
		t.SetTitle("By category (billed amounts)")
		t.AppendHeader(table.Row{"Category", "Cost", "Share"})
		for _, name := range categories {
			amount := st.CategoryBreakdown[name]
			t.AppendRow(table.Row{name, cur.Format(amount), cur.FormatPercent(percentOf(amount, total))})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		t.Render()
	}

	bc := st.BillingComparison
	t := newTable(w)
	t.SetTitle("Billing cycles")
	t.AppendHeader(table.Row{"Cycle", "Count", "Billed", "Yearly equivalent"})
	t.AppendRow(table.Row{"monthly", bc.Monthly.Count, cur.Format(bc.Monthly.Cost), cur.Format(Equivalents(bc.Monthly.Cost, CycleMonthly).Yearly)})
	t.AppendRow(table.Row{"yearly", bc.Yearly.Count, cur.Format(bc.Yearly.Cost), cur.Format(bc.Yearly.Cost)})
	t.AppendFooter(table.Row{"", "", "If all monthly", cur.Format(bc.TotalIfAllMonthly)})
	t.AppendFooter(table.Row{"", "", "If all yearly", cur.Format(bc.TotalIfAllYearly)})
	t.Render()
	fmt.Fprintln(w)
}
