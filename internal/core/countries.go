package core

import (
	"fmt"
	"sort"
)

// Country pairs a display name with the currency spent there. The mapping is
// declarative so the form never has to derive a currency code from a display
// label.
type Country struct {
	Name     string
	Currency string
}

// Countries is the built-in country list offered by the purchase form,
// ordered roughly by how often they showed up in real diaries.
var Countries = []Country{
	{"Czechia", "CZK"},
	{"Slovakia", "EUR"},
	{"Germany", "EUR"},
	{"Austria", "EUR"},
	{"France", "EUR"},
	{"Spain", "EUR"},
	{"Italy", "EUR"},
	{"Netherlands", "EUR"},
	{"Belgium", "EUR"},
	{"Finland", "EUR"},
	{"Ireland", "EUR"},
	{"Portugal", "EUR"},
	{"Greece", "EUR"},
	{"Slovenia", "EUR"},
	{"Lithuania", "EUR"},
	{"Latvia", "EUR"},
	{"Estonia", "EUR"},
	{"Malta", "EUR"},
	{"Cyprus", "EUR"},
	{"Croatia", "EUR"},
	{"USA", "USD"},
	{"United Kingdom", "GBP"},
	{"Poland", "PLN"},
	{"Hungary", "HUF"},
	{"Switzerland", "CHF"},
	{"Denmark", "DKK"},
	{"Sweden", "SEK"},
	{"Norway", "NOK"},
	{"Canada", "CAD"},
	{"Japan", "JPY"},
}

// CurrencyForCountry returns the currency spent in the named country.
func CurrencyForCountry(name string) (string, bool) {
	for _, c := range Countries {
		if c.Name == name {
			return c.Currency, true
		}
	}
	return "", false
}

// CurrencyCodes returns the distinct currency codes of the country list,
// sorted, for populating a currency selector.
func CurrencyCodes() []string {
	seen := make(map[string]struct{}, len(Countries))
	var codes []string
	for _, c := range Countries {
		if _, ok := seen[c.Currency]; ok {
			continue
		}
		seen[c.Currency] = struct{}{}
		codes = append(codes, c.Currency)
	}
	sort.Strings(codes)
	return codes
}

// ValidateCountries checks the country table for duplicate names and
// malformed currency codes. Called once at startup so a bad edit fails fast
// instead of producing unresolvable purchases.
func ValidateCountries(list []Country) error {
	names := make(map[string]struct{}, len(list))
	for _, c := range list {
		if c.Name == "" {
			return fmt.Errorf("country with empty name")
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("duplicate country %q", c.Name)
		}
		names[c.Name] = struct{}{}
		if !IsCurrencyCode(c.Currency) {
			return fmt.Errorf("country %q: bad currency code %q", c.Name, c.Currency)
		}
	}
	return nil
}
