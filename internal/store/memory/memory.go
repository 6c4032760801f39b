// Package memory is the process-lifetime purchase store. Records live only
// as long as the server; anything that should outlive it goes through the
// sheet-sync pipeline instead.
package memory

import (
	"context"
	"sort"
	"sync"

	"vydaje/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Purchase
}

func New() *Store {
	return &Store{nextID: 1}
}

// Append validates and stores the purchase, returning its assigned ID.
func (s *Store) Append(_ context.Context, p core.Purchase) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.items = append(s.items, p)
	return p.ID, nil
}

// ListAll returns every recorded purchase in insertion order.
func (s *Store) ListAll(_ context.Context) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Purchase, len(s.items))
	copy(out, s.items)
	return out, nil
}

// ListMonth returns the purchases dated within the given year and month,
// newest first.
func (s *Store) ListMonth(_ context.Context, year, month int) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Purchase
	for _, p := range s.items {
		if p.Date.Year() == year && int(p.Date.Month()) == month {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// MonthOverview aggregates converted CZK totals per category for a month.
func (s *Store) MonthOverview(_ context.Context, year, month int) (core.MonthOverview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overview := core.MonthOverview{Year: year, Month: month}
	byCategory := make(map[string]int64)
	for _, p := range s.items {
		if p.Date.Year() != year || int(p.Date.Month()) != month {
			continue
		}
		overview.Total.Cents += p.Converted.Cents
		byCategory[p.Category] += p.Converted.Cents
	}

	for name, cents := range byCategory {
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Name:   name,
			Amount: core.Money{Cents: cents},
		})
	}
	sort.Slice(overview.ByCategory, func(i, j int) bool {
		a, b := overview.ByCategory[i], overview.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	return overview, nil
}

// Len returns the number of stored purchases.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
