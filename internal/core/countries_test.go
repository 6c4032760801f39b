package core

import "testing"

func TestBuiltinCountriesAreValid(t *testing.T) {
	if err := ValidateCountries(Countries); err != nil {
		t.Fatalf("built-in country table invalid: %v", err)
	}
}

func TestCurrencyForCountry(t *testing.T) {
	cases := []struct {
		country string
		code    string
		ok      bool
	}{
		{"Czechia", "CZK", true},
		{"Japan", "JPY", true},
		{"Croatia", "EUR", true},
		{"Atlantis", "", false},
	}
	for _, tc := range cases {
		code, ok := CurrencyForCountry(tc.country)
		if code != tc.code || ok != tc.ok {
			t.Errorf("CurrencyForCountry(%q) = %q,%v want %q,%v", tc.country, code, ok, tc.code, tc.ok)
		}
	}
}

func TestValidateCountriesRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		list []Country
	}{
		{"duplicate name", []Country{{"Czechia", "CZK"}, {"Czechia", "EUR"}}},
		{"lowercase code", []Country{{"Czechia", "czk"}}},
		{"empty name", []Country{{"", "CZK"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCountries(tt.list); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCurrencyCodesAreDistinct(t *testing.T) {
	codes := CurrencyCodes()
	seen := map[string]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Fatalf("duplicate code %s", c)
		}
		seen[c] = true
	}
	if !seen["CZK"] || !seen["EUR"] {
		t.Fatalf("expected CZK and EUR in %v", codes)
	}
}
