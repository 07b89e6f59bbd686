package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// requiredColumns must all be present in the header row of a spreadsheet
var requiredColumns = []string{"name", "billing_cycle", "start_date"}

// ParseXLSX reads subscriptions from the first sheet of an Excel export.
// The header row is located by scanning for the required column names, so
// title rows above it are skipped. Header names are matched case-insensitively
// and "Billing Cycle" is treated like billing_cycle.
func ParseXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row and column indices
	columns := map[string]int{}
	dataStartRow := -1
	for i, row := range rows {
		found := map[string]int{}
		for j, cell := range row {
			found[normalizeHeader(cell)] = j
		}
		if hasColumns(found, requiredColumns) {
			columns = found
			dataStartRow = i + 1
			break
		}
	}

	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find required columns (%s)", strings.Join(requiredColumns, ", "))
	}

	var records []Record
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]

		cols := make(map[string]string, len(columns))
		empty := true
		for name, idx := range columns {
			if idx < len(row) {
				cols[name] = strings.TrimSpace(row[idx])
				if cols[name] != "" {
					empty = false
				}
			}
		}

		// Skip empty rows
		if empty {
			continue
		}

		records = append(records, recordFromColumns(cols))
	}

	return records, nil
}

func hasColumns(found map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := found[name]; !ok {
			return false
		}
	}
	return true
}

func init() {
	RegisterParser("xlsx", ParserFunc(ParseXLSX))
}
