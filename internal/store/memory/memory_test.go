package memory

import (
	"context"
	"testing"

	"vydaje/internal/core"
)

func purchase(year, month, day int, category string, cents int64) core.Purchase {
	return core.Purchase{
		Date:      core.NewDate(year, month, day),
		Country:   "Czechia",
		Currency:  "CZK",
		Amount:    float64(cents) / 100,
		Category:  category,
		Converted: core.Money{Cents: cents},
		RateUsed:  1.0,
		RateDate:  core.NewDate(year, month, day),
	}
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	id1, err := s.Append(ctx, purchase(2025, 6, 1, "Groceries", 10000))
	if err != nil || id1 != 1 {
		t.Fatalf("first append: id=%d err=%v", id1, err)
	}
	id2, err := s.Append(ctx, purchase(2025, 6, 2, "Transport", 5000))
	if err != nil || id2 != 2 {
		t.Fatalf("second append: id=%d err=%v", id2, err)
	}
}

func TestAppendRejectsInvalidPurchase(t *testing.T) {
	s := New()
	p := purchase(2025, 6, 1, "Groceries", 10000)
	p.Currency = "nope"
	if _, err := s.Append(context.Background(), p); err == nil {
		t.Fatal("expected validation error")
	}
	if s.Len() != 0 {
		t.Fatal("invalid purchase must not be stored")
	}
}

func TestListMonthFiltersAndSorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, p := range []core.Purchase{
		purchase(2025, 6, 1, "Groceries", 100),
		purchase(2025, 6, 15, "Transport", 200),
		purchase(2025, 5, 20, "Groceries", 300),
	} {
		if _, err := s.Append(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	june, err := s.ListMonth(ctx, 2025, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(june) != 2 {
		t.Fatalf("got %d purchases, want 2", len(june))
	}
	if !june[0].Date.After(june[1].Date.Time) {
		t.Fatal("expected newest first")
	}
}

func TestMonthOverviewAggregates(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, p := range []core.Purchase{
		purchase(2025, 6, 1, "Groceries", 100),
		purchase(2025, 6, 2, "Groceries", 200),
		purchase(2025, 6, 3, "Transport", 500),
		purchase(2025, 7, 1, "Groceries", 999),
	} {
		if _, err := s.Append(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	o, err := s.MonthOverview(ctx, 2025, 6)
	if err != nil {
		t.Fatal(err)
	}
	if o.Total.Cents != 800 {
		t.Fatalf("total = %d, want 800", o.Total.Cents)
	}
	if len(o.ByCategory) != 2 {
		t.Fatalf("categories = %d, want 2", len(o.ByCategory))
	}
	if o.ByCategory[0].Name != "Transport" || o.ByCategory[0].Amount.Cents != 500 {
		t.Fatalf("expected Transport first (largest), got %+v", o.ByCategory[0])
	}
}

func TestEmptyOverview(t *testing.T) {
	s := New()
	o, err := s.MonthOverview(context.Background(), 2025, 1)
	if err != nil {
		t.Fatal(err)
	}
	if o.Total.Cents != 0 || len(o.ByCategory) != 0 {
		t.Fatalf("unexpected overview %+v", o)
	}
}
