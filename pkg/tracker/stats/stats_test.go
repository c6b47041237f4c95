package stats

import (
	"math"
	"testing"
	"time"

	"alcoltracker/pkg/tracker/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Period
		wantErr bool
	}{
		{name: "year", token: "2025", want: Period{Year: 2025}},
		{name: "year and month", token: "2025-03", want: Period{Year: 2025, Month: time.March}},
		{name: "december", token: "2024-12", want: Period{Year: 2024, Month: time.December}},
		{name: "empty defaults to current year", token: "", want: Period{Year: time.Now().Year()}},
		{name: "garbage", token: "marzo", wantErr: true},
		{name: "month out of range", token: "2025-13", wantErr: true},
		{name: "trailing junk", token: "2025-03-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePeriod(%q) expected error, got %v", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriod(%q) unexpected error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestPeriodString(t *testing.T) {
	if got := (Period{Year: 2025}).String(); got != "2025" {
		t.Errorf("year period String() = %q, want 2025", got)
	}
	if got := (Period{Year: 2025, Month: time.March}).String(); got != "2025-03" {
		t.Errorf("month period String() = %q, want 2025-03", got)
	}
}

func TestFilterByPeriod(t *testing.T) {
	entries := []Entry{
		{Type: models.ExpenseTypeBeer, Amount: 1, Date: date(2025, time.March, 10)},
		{Type: models.ExpenseTypeWine, Amount: 2, Date: date(2025, time.April, 1)},
		{Type: models.ExpenseTypeBeer, Amount: 3, Date: date(2024, time.March, 15)},
		{Type: models.ExpenseTypeSpritz, Amount: 4, Date: date(2025, time.March, 31)},
	}

	year := FilterByPeriod(entries, Period{Year: 2025})
	if len(year) != 3 {
		t.Fatalf("expected 3 entries for 2025, got %d", len(year))
	}

	march := FilterByPeriod(entries, Period{Year: 2025, Month: time.March})
	if len(march) != 2 {
		t.Fatalf("expected 2 entries for 2025-03, got %d", len(march))
	}
	// Order preserved
	if march[0].Amount != 1 || march[1].Amount != 4 {
		t.Errorf("filter should preserve order, got amounts %v, %v", march[0].Amount, march[1].Amount)
	}
}

func TestSum(t *testing.T) {
	entries := []Entry{
		{Amount: 5.50, Quantity: 0.5},
		{Amount: 4.50, Quantity: 0.75},
	}
	totals := Sum(entries)
	if math.Abs(totals.Amount-10.0) > 1e-9 {
		t.Errorf("Amount = %v, want 10.0", totals.Amount)
	}
	if math.Abs(totals.Quantity-1.25) > 1e-9 {
		t.Errorf("Quantity = %v, want 1.25", totals.Quantity)
	}
	if got := Sum(nil); got.Amount != 0 || got.Quantity != 0 {
		t.Errorf("Sum(nil) = %v, want zero totals", got)
	}
}

func TestBreakdownByType(t *testing.T) {
	entries := []Entry{
		{Type: models.ExpenseTypeBeer, Amount: 5.50, Quantity: 0.5},
		{Type: models.ExpenseTypeBeer, Amount: 4.50, Quantity: 0.5},
		{Type: models.ExpenseTypeWine, Amount: 12, Quantity: 0.75},
	}

	byType := BreakdownByType(entries)
	if len(byType) != len(models.AllExpenseTypes) {
		t.Fatalf("expected %d categories, got %d", len(models.AllExpenseTypes), len(byType))
	}

	beer := byType[models.ExpenseTypeBeer]
	if math.Abs(beer.Amount-10.0) > 1e-9 || math.Abs(beer.Quantity-1.0) > 1e-9 {
		t.Errorf("beer = %+v, want amount 10.0 quantity 1.0", beer)
	}

	// Categories without entries are present and zeroed
	if spirits := byType[models.ExpenseTypeSpirits]; spirits.Amount != 0 || spirits.Quantity != 0 {
		t.Errorf("spirits should be zero-filled, got %+v", spirits)
	}
}
