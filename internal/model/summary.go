package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RecordFilter narrows expense and income listings. Zero values mean "any".
type RecordFilter struct {
	From      time.Time
	To        time.Time
	Category  string
	MinAmount decimal.NullDecimal
	MaxAmount decimal.NullDecimal
	Search    string
	Limit     int
	Offset    int
}

type CategoryTotal struct {
	Category   string          `db:"category"`
	Total      decimal.Decimal `db:"total"`
	Count      int             `db:"count"`
	Percentage float64         `db:"-"`
}

type MonthlyTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
	Count int
}

type Summary struct {
	From       time.Time
	To         time.Time
	Total      decimal.Decimal
	Count      int
	Average    decimal.Decimal
	ByCategory []CategoryTotal
	ByMonth    []MonthlyTotal
}

// AmountAt is one dated amount, the input of monthly bucketing.
type AmountAt struct {
	Date   time.Time       `db:"date"`
	Amount decimal.Decimal `db:"amount"`
}

// NewSummary assembles totals, averages and percentages from a per-category
// breakdown and the dated amounts of the same range.
func NewSummary(from, to time.Time, categories []CategoryTotal, amounts []AmountAt) *Summary {
	s := &Summary{From: from, To: to, Total: decimal.Zero, Average: decimal.Zero}

	for _, c := range categories {
		s.Total = s.Total.Add(c.Total)
		s.Count += c.Count
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}

	s.ByCategory = make([]CategoryTotal, len(categories))
	for i, c := range categories {
		c.Total = c.Total.Round(2)
		if s.Total.IsPositive() {
			c.Percentage = c.Total.Div(s.Total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		s.ByCategory[i] = c
	}
	s.Total = s.Total.Round(2)

	s.ByMonth = MonthlyTotals(amounts)
	return s
}

// MonthlyTotals buckets amounts by calendar month (UTC), oldest first.
func MonthlyTotals(amounts []AmountAt) []MonthlyTotal {
	buckets := map[string]*MonthlyTotal{}
	for _, a := range amounts {
		key := a.Date.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyTotal{Month: key, Total: decimal.Zero}
			buckets[key] = b
		}
		b.Total = b.Total.Add(a.Amount)
		b.Count++
	}

	months := make([]MonthlyTotal, 0, len(buckets))
	for _, b := range buckets {
		b.Total = b.Total.Round(2)
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}
