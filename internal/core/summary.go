// Package core owns the wallet domain types and the read-only projections
// computed over the expense collection.
//
// This file contains the derived-view aggregations consumed by chart
// collaborators. Every function here is a pure function of its input slice:
// no mutation, no persistence side effects, identical output for identical
// input regardless of call order.
package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DayTotal is the summed expense amount attributed to a single calendar day.
type DayTotal struct {
	Date   Date
	Amount decimal.Decimal
}

// CategoryTotals sums prices per category over all records.
func CategoryTotals(expenses []ExpenseRecord) map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Price)
	}
	return totals
}

// DailyTotals sums prices per calendar day and returns the days sorted
// ascending by date, regardless of the input order.
func DailyTotals(expenses []ExpenseRecord) []DayTotal {
	byDay := make(map[string]DayTotal)
	for _, e := range expenses {
		key := e.Date.String()
		day := byDay[key]
		day.Date = e.Date
		day.Amount = day.Amount.Add(e.Price)
		byDay[key] = day
	}

	days := make([]DayTotal, 0, len(byDay))
	for _, day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// GrandTotal sums all prices. An empty collection totals zero.
func GrandTotal(expenses []ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Price)
	}
	return total
}

// AverageDaily divides the summed daily totals by the number of distinct
// days. Zero days yields zero rather than a division by zero.
func AverageDaily(days []DayTotal) decimal.Decimal {
	if len(days) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(days))))
}
