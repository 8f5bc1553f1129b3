package report

import (
	"encoding/csv"
	"strings"
)

// CSVHeader is the fixed first line of every billing export.
var CSVHeader = []string{"Date", "Card", "Cash", "Handled By", "Trinkgeld", "Trinkgeld Bar", "Paid"}

// ToCSV renders rows followed by a Totals line. The date column is label(key)
// (identity when label is nil). Handled By is only filled for raw entries, and
// the Totals line carries the five column sums but not the till total.
func ToCSV(rows []Row, label func(string) string) string {
	if label == nil {
		label = func(s string) string { return s }
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(CSVHeader)
	for _, r := range rows {
		a := r.RowAmounts()
		_ = w.Write([]string{
			label(r.RowKey()),
			a.Card.String(),
			a.Cash.String(),
			r.RowHandler(),
			a.Trinkgeld.String(),
			a.TrinkgeldBar.String(),
			a.Paid.String(),
		})
	}

	t := ComputeTotals(rows)
	_ = w.Write([]string{
		"Totals",
		t.Card.String(),
		t.Cash.String(),
		"",
		t.Trinkgeld.String(),
		t.TrinkgeldBar.String(),
		t.Paid.String(),
	})

	// strings.Builder never fails, so csv.Writer has no error to surface.
	w.Flush()
	return sb.String()
}
