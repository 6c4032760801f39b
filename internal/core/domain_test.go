package core

import (
	"errors"
	"strings"
	"testing"
)

func validPurchase() Purchase {
	return Purchase{
		Date:     NewDate(2025, 1, 10),
		Shop:     "Billa",
		Country:  "Czechia",
		Currency: "CZK",
		Amount:   129.90,
		Category: "Groceries",
	}
}

func TestPurchaseValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Purchase)
		wantErr error
	}{
		{
			name:   "valid purchase",
			mutate: func(p *Purchase) {},
		},
		{
			name:    "zero date",
			mutate:  func(p *Purchase) { p.Date = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "lowercase currency",
			mutate:  func(p *Purchase) { p.Currency = "eur" },
			wantErr: ErrInvalidCurrency,
		},
		{
			name:    "two-letter currency",
			mutate:  func(p *Purchase) { p.Currency = "EU" },
			wantErr: ErrInvalidCurrency,
		},
		{
			name:    "zero amount",
			mutate:  func(p *Purchase) { p.Amount = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(p *Purchase) { p.Amount = -5 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "blank category",
			mutate:  func(p *Purchase) { p.Category = "   " },
			wantErr: ErrEmptyCategory,
		},
		{
			name:   "overlong shop",
			mutate: func(p *Purchase) { p.Shop = strings.Repeat("x", 201) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPurchase()
			tt.mutate(&p)
			err := p.Validate()
			if tt.name == "valid purchase" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMonthOverviewTopCategory(t *testing.T) {
	o := MonthOverview{
		Year:  2025,
		Month: 6,
		Total: Money{Cents: 10000},
		ByCategory: []CategoryAmount{
			{Name: "Groceries", Amount: Money{Cents: 6000}},
			{Name: "Entertainment", Amount: Money{Cents: 4000}},
		},
	}
	top, pct, ok := o.TopCategory()
	if !ok || top.Name != "Groceries" || pct != 60 {
		t.Fatalf("got %v %v %v", top, pct, ok)
	}

	empty := MonthOverview{}
	if _, _, ok := empty.TopCategory(); ok {
		t.Fatal("expected no top category for empty overview")
	}
}
