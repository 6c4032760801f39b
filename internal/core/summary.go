package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount // sorted by amount, descending
}

// TopCategory returns the category with the highest amount and its share of
// the monthly total in percent. Returns false for an empty overview.
func (o MonthOverview) TopCategory() (CategoryAmount, float64, bool) {
	if len(o.ByCategory) == 0 || o.Total.Cents == 0 {
		return CategoryAmount{}, 0, false
	}
	top := o.ByCategory[0]
	for _, c := range o.ByCategory[1:] {
		if c.Amount.Cents > top.Amount.Cents {
			top = c
		}
	}
	return top, float64(top.Amount.Cents) / float64(o.Total.Cents) * 100, true
}

// Share returns the named category's share of the monthly total in percent,
// or zero when the category or the total is absent.
func (o MonthOverview) Share(name string) float64 {
	if o.Total.Cents == 0 {
		return 0
	}
	for _, c := range o.ByCategory {
		if c.Name == name {
			return float64(c.Amount.Cents) / float64(o.Total.Cents) * 100
		}
	}
	return 0
}
