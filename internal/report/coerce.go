package report

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts a loosely typed amount into a decimal. Missing, empty,
// non-numeric and non-finite values become zero.
func Coerce(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		return fromString(n.String())
	case string:
		return fromString(n)
	}
	return decimal.Zero
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// EntryFromMap builds an Entry from a decoded JSON object using the field
// names of the billing data source.
func EntryFromMap(m map[string]any) Entry {
	date, _ := m["date"].(string)
	handledBy, _ := m["handledBy"].(string)
	return Entry{
		Date:      strings.TrimSpace(date),
		HandledBy: handledBy,
		Amounts: Amounts{
			Card:         Coerce(m["card"]),
			Cash:         Coerce(m["cash"]),
			Trinkgeld:    Coerce(m["trinkgeld"]),
			TrinkgeldBar: Coerce(m["trinkgeldBar"]),
			Paid:         Coerce(m["paid"]),
		},
	}
}
