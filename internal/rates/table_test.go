package rates

import (
	"testing"
	"time"
)

const sampleDocument = `10.01.2025 #7
země|měna|množství|kód|kurz
Austrálie|dolar|1|AUD|14,551
EMU|euro|1|EUR|25,123
Japonsko|jen|100|JPY|1500,00
Velká Británie|libra|1|GBP|29,052
`

func TestParseTable(t *testing.T) {
	table, err := ParseTable(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC); !table.Date.Equal(want) {
		t.Errorf("table date = %v, want %v", table.Date, want)
	}
	if table.Len() != 4 {
		t.Errorf("len = %d, want 4", table.Len())
	}

	cases := []struct {
		code string
		rate float64
	}{
		{"EUR", 25.123}, // decimal comma normalized
		{"JPY", 15.0},   // lot size 100 divided out
		{"GBP", 29.052},
	}
	for _, tc := range cases {
		got, ok := table.Lookup(tc.code)
		if !ok || got != tc.rate {
			t.Errorf("Lookup(%s) = %v,%v want %v", tc.code, got, ok, tc.rate)
		}
	}

	if _, ok := table.Lookup("XXX"); ok {
		t.Error("unknown code must not resolve")
	}
}

func TestParseTableSkipsMalformedLines(t *testing.T) {
	doc := "10.01.2025 #7\nhdr\n" +
		"garbage|line\n" + // 2 fields, skipped
		"Germany|Euro|1|EUR|25,123\n" +
		"Nowhere|thing|x|QQQ|1,0\n" + // bad lot size, skipped
		"Nowhere|thing|1|QQQ|abc\n" + // bad rate, skipped
		"Nowhere|thing|1|TOOLONG|1,0\n" // bad code, skipped

	table, err := ParseTable(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("len = %d, want 1", table.Len())
	}
	if rate, ok := table.Lookup("EUR"); !ok || rate != 25.123 {
		t.Fatalf("Lookup(EUR) = %v,%v", rate, ok)
	}
}

func TestParseTableRejectsUnusableDocuments(t *testing.T) {
	for _, doc := range []string{"", "just one line", "two\nlines", "a\nb\nc\nd"} {
		if _, err := ParseTable(doc); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestParseTableToleratesBadHeaderDate(t *testing.T) {
	doc := "not a date\nhdr\nGermany|Euro|1|EUR|25,0\n"
	table, err := ParseTable(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !table.Date.IsZero() {
		t.Errorf("expected zero date, got %v", table.Date)
	}
}

func TestParseTableHandlesCRLF(t *testing.T) {
	doc := "10.01.2025 #7\r\nhdr\r\nGermany|Euro|1|EUR|25,0\r\n"
	table, err := ParseTable(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rate, ok := table.Lookup("EUR"); !ok || rate != 25.0 {
		t.Fatalf("Lookup(EUR) = %v,%v", rate, ok)
	}
}
