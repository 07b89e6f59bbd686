package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestIsKnownParser(t *testing.T) {
	// Register a test parser
	RegisterParser("test-format", ParserFunc(func(path string) ([]Record, error) {
		return nil, nil
	}))

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"known parser", "test-format", true},
		{"built-in parser", "xlsx", true},
		{"built-in csv parser", "csv", true},
		{"unknown parser", "unknown-format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsKnownParser(tt.input)
			if got != tt.expected {
				t.Errorf("IsKnownParser(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFileArg(t *testing.T) {
	// Register a test parser for these tests
	RegisterParser("test-format", ParserFunc(func(path string) ([]Record, error) {
		return nil, nil
	}))

	tests := []struct {
		name           string
		input          string
		expectedFormat string
		expectedPath   string
	}{
		{
			name:           "with known format prefix",
			input:          "test-format:data.json",
			expectedFormat: "test-format",
			expectedPath:   "data.json",
		},
		{
			name:           "with built-in format prefix",
			input:          "xlsx:subscriptions.xlsx",
			expectedFormat: "xlsx",
			expectedPath:   "subscriptions.xlsx",
		},
		{
			name:           "no prefix",
			input:          "data.json",
			expectedFormat: "",
			expectedPath:   "data.json",
		},
		{
			name:           "unknown prefix treated as path",
			input:          "unknown:data.json",
			expectedFormat: "",
			expectedPath:   "unknown:data.json",
		},
		{
			name:           "windows path with drive letter",
			input:          "C:\\Users\\test\\data.xlsx",
			expectedFormat: "",
			expectedPath:   "C:\\Users\\test\\data.xlsx",
		},
		{
			name:           "path with colon but not a parser",
			input:          "foo:bar:baz.json",
			expectedFormat: "",
			expectedPath:   "foo:bar:baz.json",
		},
		{
			name:           "format prefix with path containing spaces",
			input:          "test-format:path with spaces/file.json",
			expectedFormat: "test-format",
			expectedPath:   "path with spaces/file.json",
		},
		{
			name:           "format prefix with absolute path",
			input:          "test-format:/home/user/data.json",
			expectedFormat: "test-format",
			expectedPath:   "/home/user/data.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFormat, gotPath := ParseFileArg(tt.input)
			if gotFormat != tt.expectedFormat {
				t.Errorf("ParseFileArg(%q) format = %q, want %q", tt.input, gotFormat, tt.expectedFormat)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("ParseFileArg(%q) path = %q, want %q", tt.input, gotPath, tt.expectedPath)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestGetParser_Unknown(t *testing.T) {
	_, err := GetParser("bank-statement")
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}

func TestParseSimpleJSON(t *testing.T) {
	path := writeFile(t, "subs.json", `{"subscriptions": [
		{"name": "Netflix", "billing_cycle": "monthly", "monthly_price": 15.99, "yearly_price": "159.99", "start_date": "2024-01-15", "category": "Streaming"},
		{"id": "cloud", "name": "Cloud", "billing_cycle": "yearly", "cost": 99.99, "yearly_price": 99.99, "start_date": "2023-06-01", "active": false}
	]}`)

	records, err := ParseSimpleJSON(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	netflix := records[0]
	if netflix.MonthlyPrice == nil || !netflix.MonthlyPrice.Equal(dec("15.99")) {
		t.Errorf("MonthlyPrice = %v, want 15.99", netflix.MonthlyPrice)
	}
	if netflix.YearlyPrice == nil || !netflix.YearlyPrice.Equal(dec("159.99")) {
		t.Errorf("YearlyPrice from string = %v, want 159.99", netflix.YearlyPrice)
	}
	if netflix.Cost != nil || netflix.Active != nil {
		t.Error("absent fields should be nil")
	}

	cloud := records[1]
	if cloud.ID != "cloud" || cloud.Active == nil || *cloud.Active {
		t.Errorf("unexpected cloud record: %+v", cloud)
	}
}

func TestParseSimpleJSON_Invalid(t *testing.T) {
	path := writeFile(t, "broken.json", `{"subscriptions": [`)
	if _, err := ParseSimpleJSON(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParseCSV(t *testing.T) {
	path := writeFile(t, "subs.csv", "name,billing_cycle,monthly_price,yearly_price,start_date,category,active\n"+
		"Netflix,monthly,15.99,159.99,2024-01-15,Streaming,\n"+
		"Cloud,yearly,,99.99,2023-06-01,Storage,no\n"+
		"Broken,monthly,ten,,2024-01-01,,\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	sub, err := records[0].ToSubscription()
	if err != nil {
		t.Fatalf("Netflix: unexpected error: %v", err)
	}
	if sub.Pricing.Kind() != PricingBoth || sub.Category != "Streaming" {
		t.Errorf("unexpected Netflix subscription: %+v", sub)
	}

	cloud, err := records[1].ToSubscription()
	if err != nil {
		t.Fatalf("Cloud: unexpected error: %v", err)
	}
	if cloud.Active || cloud.Pricing.Kind() != PricingYearlyOnly {
		t.Errorf("unexpected Cloud subscription: %+v", cloud)
	}

	if records[2].Err == nil {
		t.Error("expected cell error for unparseable monthly_price")
	}
}

// createTestXLSX writes a spreadsheet with a title row above the header
func createTestXLSX(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", "My subscriptions")
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to create test xlsx: %v", err)
	}
}

func TestParseXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.xlsx")
	createTestXLSX(t, path,
		[]string{"Name", "Billing Cycle", "Monthly Price", "Yearly Price", "Start Date", "Category"},
		[][]string{
			{"Netflix", "monthly", "15.99", "159.99", "2024-01-15", "Streaming"},
			{"", "", "", "", "", ""},
			{"Cloud", "Yearly", "", "99.99", "2023-06-01", ""},
		})

	records, err := ParseXLSX(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (empty row skipped), got %d", len(records))
	}
	if records[0].Name != "Netflix" || records[1].Name != "Cloud" {
		t.Errorf("unexpected names: %q, %q", records[0].Name, records[1].Name)
	}

	sub, err := records[1].ToSubscription()
	if err != nil {
		t.Fatalf("Cloud: unexpected error: %v", err)
	}
	if sub.BillingCycle != CycleYearly || !sub.Cost.Equal(dec("99.99")) {
		t.Errorf("unexpected Cloud subscription: %+v", sub)
	}
}

func TestParseXLSX_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xlsx")
	createTestXLSX(t, path, []string{"Date", "Text", "Amount"}, [][]string{{"2024-01-15", "Netflix", "-99"}})

	if _, err := ParseXLSX(path); err == nil {
		t.Error("expected error for sheet without subscription columns")
	}
}

func TestLoadAll(t *testing.T) {
	jsonPath := writeFile(t, "subs.json", `{"subscriptions": [
		{"name": "Netflix", "billing_cycle": "monthly", "monthly_price": 15.99, "start_date": "2024-01-15"},
		{"name": "", "billing_cycle": "monthly", "monthly_price": 5, "start_date": "2024-01-15"}
	]}`)
	csvPath := writeFile(t, "subs.csv", "name,billing_cycle,yearly_price,start_date\nCloud,yearly,99.99,2023-06-01\n")

	subs, err := LoadAll([]string{jsonPath, "csv:" + csvPath}, LoadOptions{DefaultSource: "simple-json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 valid subscriptions, got %d", len(subs))
	}
	if subs[0].Name != "Netflix" || subs[1].Name != "Cloud" {
		t.Errorf("unexpected names: %q, %q", subs[0].Name, subs[1].Name)
	}

	_, err = LoadAll([]string{jsonPath}, LoadOptions{DefaultSource: "simple-json", Strict: true})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("strict mode: expected ErrInvalidInput, got %v", err)
	}

	_, err = LoadAll([]string{jsonPath}, LoadOptions{DefaultSource: "bank-statement"})
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}
