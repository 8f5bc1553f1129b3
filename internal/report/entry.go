// Package report turns end-of-day billing entries into grouped report rows,
// chart series and CSV exports. Everything in it is pure and allocation-local,
// so the functions are safe to call from any number of goroutines.
package report

import "github.com/shopspring/decimal"

// Amounts carries the five summed money columns of a billing row.
type Amounts struct {
	Card         decimal.Decimal `json:"card"`
	Cash         decimal.Decimal `json:"cash"`
	Trinkgeld    decimal.Decimal `json:"trinkgeld"`
	TrinkgeldBar decimal.Decimal `json:"trinkgeldBar"`
	Paid         decimal.Decimal `json:"paid"`
}

// Add returns the field-wise sum of a and b.
func (a Amounts) Add(b Amounts) Amounts {
	return Amounts{
		Card:         a.Card.Add(b.Card),
		Cash:         a.Cash.Add(b.Cash),
		Trinkgeld:    a.Trinkgeld.Add(b.Trinkgeld),
		TrinkgeldBar: a.TrinkgeldBar.Add(b.TrinkgeldBar),
		Paid:         a.Paid.Add(b.Paid),
	}
}

// Till is card plus cash, excluding tips and expenses.
func (a Amounts) Till() decimal.Decimal {
	return a.Card.Add(a.Cash)
}

// Entry is a single business-day billing record. Date is expected in
// zero-padded YYYY-MM-DD form.
type Entry struct {
	Date      string `json:"date"`
	HandledBy string `json:"handledBy"`
	Amounts
}

// Bucket is the aggregate of all entries sharing a period key.
type Bucket struct {
	Key string `json:"key"`
	Amounts
}

// Row is anything that can be rendered as a report line: a raw Entry or a Bucket.
type Row interface {
	RowKey() string
	RowHandler() string
	RowAmounts() Amounts
}

func (e Entry) RowKey() string      { return e.Date }
func (e Entry) RowHandler() string  { return e.HandledBy }
func (e Entry) RowAmounts() Amounts { return e.Amounts }

func (b Bucket) RowKey() string      { return b.Key }
func (b Bucket) RowHandler() string  { return "" }
func (b Bucket) RowAmounts() Amounts { return b.Amounts }

// EntryRows adapts a slice of entries to rows.
func EntryRows(entries []Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = e
	}
	return rows
}

// BucketRows adapts a slice of buckets to rows.
func BucketRows(buckets []Bucket) []Row {
	rows := make([]Row, len(buckets))
	for i, b := range buckets {
		rows[i] = b
	}
	return rows
}
