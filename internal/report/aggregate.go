package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// OverallKey is the key of the single bucket produced by GranularityOverall.
const OverallKey = "overall"

// Granularity selects how entries are bucketed.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityYear    Granularity = "year"
	GranularityOverall Granularity = "overall"
)

// ParseGranularity accepts the query values used by the billing report endpoint.
func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear, GranularityOverall:
		return g, true
	case "":
		return GranularityDay, true
	}
	return "", false
}

// parseDate reads the leading YYYY-MM-DD of s.
func parseDate(s string) (time.Time, bool) {
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsISODate reports whether s is exactly a zero-padded YYYY-MM-DD date.
func IsISODate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, ok := parseDate(s)
	return ok
}

// FilterByDateRange keeps entries whose date lies in [from, to]. An empty bound
// is open. Dates are compared as strings, so callers must pass zero-padded ISO
// dates. With any bound set, entries whose date is not exactly YYYY-MM-DD are
// dropped.
func FilterByDateRange(entries []Entry, from, to string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if from == "" && to == "" {
			out = append(out, e)
			continue
		}
		if !IsISODate(e.Date) {
			continue
		}
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}
		out = append(out, e)
	}
	return out
}

// BucketKey derives the bucket key of a date string. Unparseable dates are
// returned unchanged so they form their own bucket.
func BucketKey(date string, g Granularity) string {
	if g == GranularityOverall {
		return OverallKey
	}
	if g == GranularityDay {
		return date
	}
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	switch g {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityYear:
		return t.Format("2006")
	}
	return date
}

// GroupBy sums entries per period key and returns buckets sorted by key in
// descending lexicographic order. Entries sharing a key are added, never
// overwritten. Week keys sort chronologically only within a year.
func GroupBy(entries []Entry, g Granularity) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)

	for _, e := range entries {
		key := BucketKey(e.Date, g)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Amounts: zeroAmounts()})
		}
		buckets[i].Amounts = buckets[i].Amounts.Add(e.Amounts)
	}

	slices.SortFunc(buckets, func(a, b Bucket) int {
		return strings.Compare(b.Key, a.Key)
	})
	return buckets
}

// Totals is the column sum of a set of rows plus the till total (card + cash).
type Totals struct {
	Amounts
	Total decimal.Decimal `json:"total"`
}

// ComputeTotals sums the five money columns over rows.
func ComputeTotals(rows []Row) Totals {
	sum := zeroAmounts()
	for _, r := range rows {
		sum = sum.Add(r.RowAmounts())
	}
	return Totals{Amounts: sum, Total: sum.Till()}
}

func zeroAmounts() Amounts {
	return Amounts{
		Card:         decimal.Zero,
		Cash:         decimal.Zero,
		Trinkgeld:    decimal.Zero,
		TrinkgeldBar: decimal.Zero,
		Paid:         decimal.Zero,
	}
}
