// Package stats aggregates expense records: period filtering, totals,
// per-type breakdowns, and member leaderboards. It is pure and stateless;
// callers load the records and hand them in.
package stats

import (
	"fmt"
	"time"

	"alcoltracker/pkg/tracker/models"
)

// Entry is an expense with the minimal fields needed for aggregation.
type Entry struct {
	OwnerID  uint
	Type     models.ExpenseType
	Amount   float64
	Quantity float64
	Date     time.Time
}

// Period selects a calendar year, or a single month when Month is non-zero.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a period token: "2025" for a whole year, "2025-03" for
// a single month. An empty token defaults to the current year.
func ParsePeriod(token string) (Period, error) {
	if token == "" {
		return Period{Year: time.Now().Year()}, nil
	}

	if t, err := time.Parse("2006", token); err == nil {
		return Period{Year: t.Year()}, nil
	}
	if t, err := time.Parse("2006-01", token); err == nil {
		return Period{Year: t.Year(), Month: t.Month()}, nil
	}

	return Period{}, fmt.Errorf("invalid period %q: expected YYYY or YYYY-MM", token)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	return p.Month == 0 || t.Month() == p.Month
}

// String returns the period token form of p.
func (p Period) String() string {
	if p.Month == 0 {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// FilterByPeriod returns the entries whose date falls inside the period,
// preserving order.
func FilterByPeriod(entries []Entry, p Period) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if p.Contains(e.Date) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Totals holds summed amount (currency) and quantity (liters).
type Totals struct {
	Amount   float64 `json:"amount"`
	Quantity float64 `json:"quantity"`
}

// Sum returns the amount and quantity totals across all entries.
func Sum(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.Amount += e.Amount
		t.Quantity += e.Quantity
	}
	return t
}

// BreakdownByType returns totals per beverage category. Every fixed category
// is present in the result, zero-valued if no entry matches.
func BreakdownByType(entries []Entry) map[models.ExpenseType]Totals {
	byType := make(map[models.ExpenseType]Totals, len(models.AllExpenseTypes))
	for _, t := range models.AllExpenseTypes {
		byType[t] = Totals{}
	}
	for _, e := range entries {
		t := byType[e.Type]
		t.Amount += e.Amount
		t.Quantity += e.Quantity
		byType[e.Type] = t
	}
	return byType
}
