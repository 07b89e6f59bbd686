package internal

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// csvRow is one line of a subscription CSV export.
// Columns may appear in any order and missing ones are left empty.
type csvRow struct {
	ID           string `csv:"id"`
	Name         string `csv:"name"`
	BillingCycle string `csv:"billing_cycle"`
	Cost         string `csv:"cost"`
	MonthlyPrice string `csv:"monthly_price"`
	YearlyPrice  string `csv:"yearly_price"`
	StartDate    string `csv:"start_date"`
	Category     string `csv:"category"`
	Active       string `csv:"active"`
}

// ParseCSV reads subscriptions from a CSV file with a header row
func ParseCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromColumns(map[string]string{
			"id":            row.ID,
			"name":          row.Name,
			"billing_cycle": row.BillingCycle,
			"cost":          row.Cost,
			"monthly_price": row.MonthlyPrice,
			"yearly_price":  row.YearlyPrice,
			"start_date":    row.StartDate,
			"category":      row.Category,
			"active":        row.Active,
		}))
	}
	return records, nil
}

func init() {
	RegisterParser("csv", ParserFunc(ParseCSV))
}
