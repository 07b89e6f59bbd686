package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for importing subscriptions
// Example:
//
//	{
//	  "subscriptions": [
//	    {"name": "Netflix", "billing_cycle": "monthly", "monthly_price": 15.99,
//	     "yearly_price": "159.99", "start_date": "2024-01-01", "category": "Entertainment"}
//	  ]
//	}
//
// Amounts may be JSON numbers or strings. cost is optional and defaults to
// the price of the billing cycle.
type SimpleJSONFormat struct {
	Subscriptions []Record `json:"subscriptions"`
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return jsonData.Subscriptions, nil
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON))
}
