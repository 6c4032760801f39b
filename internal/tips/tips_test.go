package tips

import (
	"testing"
	"time"

	"vydaje/internal/core"
	"vydaje/internal/i18n"
)

func TestForOverviewThresholds(t *testing.T) {
	tests := []struct {
		name     string
		overview core.MonthOverview
		want     int
	}{
		{
			name: "under all thresholds",
			overview: core.MonthOverview{ByCategory: []core.CategoryAmount{
				{Name: "Groceries", Amount: core.Money{Cents: 500000}},
				{Name: "Entertainment", Amount: core.Money{Cents: 100000}},
			}},
			want: 0,
		},
		{
			name: "groceries over threshold",
			overview: core.MonthOverview{ByCategory: []core.CategoryAmount{
				{Name: "Groceries", Amount: core.Money{Cents: 650000}},
			}},
			want: 1,
		},
		{
			name: "two categories over",
			overview: core.MonthOverview{ByCategory: []core.CategoryAmount{
				{Name: "Groceries", Amount: core.Money{Cents: 650000}},
				{Name: "Drugstore", Amount: core.Money{Cents: 250000}},
			}},
			want: 2,
		},
		{
			name: "unwatched category ignored",
			overview: core.MonthOverview{ByCategory: []core.CategoryAmount{
				{Name: "Transport", Amount: core.Money{Cents: 9999999}},
			}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForOverview(i18n.EN, tt.overview)
			if len(got) != tt.want {
				t.Fatalf("got %d messages %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestForOverviewIsDeterministic(t *testing.T) {
	o := core.MonthOverview{ByCategory: []core.CategoryAmount{
		{Name: "Groceries", Amount: core.Money{Cents: 700001}},
	}}
	first := ForOverview(i18n.SK, o)
	second := ForOverview(i18n.SK, o)
	if len(first) != 1 || first[0] != second[0] {
		t.Fatalf("expected stable message, got %v then %v", first, second)
	}
}

func TestForPurchase(t *testing.T) {
	p := core.Purchase{Category: "Electronics", Converted: core.Money{Cents: 1200000}}
	if _, ok := ForPurchase(i18n.EN, p); !ok {
		t.Fatal("expected an electronics remark")
	}
	p.Category = "Groceries"
	if _, ok := ForPurchase(i18n.EN, p); ok {
		t.Fatal("unexpected remark for groceries purchase")
	}
}

func TestSeasonal(t *testing.T) {
	if _, ok := Seasonal(i18n.SK, time.December); !ok {
		t.Fatal("expected a December note")
	}
	if _, ok := Seasonal(i18n.SK, time.March); ok {
		t.Fatal("no note expected for March")
	}
}

func TestRemarkTablesHaveLanguageParity(t *testing.T) {
	for category, skMsgs := range remarks[i18n.SK] {
		enMsgs := remarks[i18n.EN][category]
		if len(enMsgs) != len(skMsgs) {
			t.Errorf("category %s: %d SK messages vs %d EN", category, len(skMsgs), len(enMsgs))
		}
	}
	for month := range seasonal[i18n.SK] {
		if _, ok := seasonal[i18n.EN][month]; !ok {
			t.Errorf("seasonal note for %v missing in EN", month)
		}
	}
}
