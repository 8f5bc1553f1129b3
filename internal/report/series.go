package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Series is the chart-ready form of a bucket list, oldest period first.
type Series struct {
	Keys         []string          `json:"keys"`
	Labels       []string          `json:"labels"`
	Card         []decimal.Decimal `json:"card"`
	Cash         []decimal.Decimal `json:"cash"`
	Trinkgeld    []decimal.Decimal `json:"trinkgeld"`
	TrinkgeldBar []decimal.Decimal `json:"trinkgeldBar"`
	Paid         []decimal.Decimal `json:"paid"`
	Total        []decimal.Decimal `json:"total"`
}

// BuildSeries lays buckets out in ascending key order for plotting.
func BuildSeries(buckets []Bucket, label func(string) string) Series {
	if label == nil {
		label = FormatBucketLabel
	}

	sorted := slices.Clone(buckets)
	slices.SortFunc(sorted, func(a, b Bucket) int {
		return strings.Compare(a.Key, b.Key)
	})

	n := len(sorted)
	s := Series{
		Keys:         make([]string, 0, n),
		Labels:       make([]string, 0, n),
		Card:         make([]decimal.Decimal, 0, n),
		Cash:         make([]decimal.Decimal, 0, n),
		Trinkgeld:    make([]decimal.Decimal, 0, n),
		TrinkgeldBar: make([]decimal.Decimal, 0, n),
		Paid:         make([]decimal.Decimal, 0, n),
		Total:        make([]decimal.Decimal, 0, n),
	}
	for _, b := range sorted {
		s.Keys = append(s.Keys, b.Key)
		s.Labels = append(s.Labels, label(b.Key))
		s.Card = append(s.Card, b.Card)
		s.Cash = append(s.Cash, b.Cash)
		s.Trinkgeld = append(s.Trinkgeld, b.Trinkgeld)
		s.TrinkgeldBar = append(s.TrinkgeldBar, b.TrinkgeldBar)
		s.Paid = append(s.Paid, b.Paid)
		s.Total = append(s.Total, b.Till())
	}
	return s
}
