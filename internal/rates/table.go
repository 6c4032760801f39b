package rates

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Entry is one published rate: Rate koruna buy Amount units of the currency.
type Entry struct {
	Country string
	Name    string
	Code    string  // 3-letter currency code
	Amount  int     // lot size the rate is quoted for
	Rate    float64 // CZK per Amount units
}

// Table is an immutable daily rate table keyed by currency code.
type Table struct {
	Date    time.Time // the date the table is valid for; zero if the header was unreadable
	entries map[string]Entry
}

var errEmptyTable = errors.New("rate table has no entries")

// NewTable builds a table from entries; used by feed decoders and tests.
// Entries with a non-positive lot size are dropped.
func NewTable(date time.Time, entries []Entry) *Table {
	t := &Table{Date: date, entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Amount <= 0 {
			continue
		}
		t.entries[strings.ToUpper(e.Code)] = e
	}
	return t
}

// Lookup returns the per-unit CZK rate for a currency code, normalized by
// the lot size.
func (t *Table) Lookup(code string) (float64, bool) {
	e, ok := t.entries[code]
	if !ok {
		return 0, false
	}
	return e.Rate / float64(e.Amount), true
}

// Len returns the number of currencies in the table.
func (t *Table) Len() int { return len(t.entries) }

// ParseTable parses the pipe-delimited daily publication:
//
//	10.01.2025 #7
//	země|měna|množství|kód|kurz
//	Japonsko|jen|100|JPY|15,285
//
// The first line carries the valid-for date (DD.MM.YYYY before any trailing
// text), the second line is a column header, and every following line must
// split into exactly five fields or it is skipped. Decimal commas are
// normalized to dots. A document with no usable entries is an error.
func ParseTable(text string) (*Table, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return nil, errEmptyTable
	}

	t := &Table{entries: make(map[string]Entry)}

	header := strings.TrimSpace(lines[0])
	if i := strings.Index(header, " #"); i >= 0 {
		header = header[:i]
	}
	if d, err := time.Parse("02.01.2006", strings.TrimSpace(header)); err == nil {
		t.Date = d
	}

	for _, line := range lines[2:] {
		parts := strings.Split(strings.TrimSpace(line), "|")
		if len(parts) != 5 {
			continue
		}
		amount, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || amount <= 0 {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(parts[3]))
		if len(code) != 3 {
			continue
		}
		rate, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(parts[4]), ",", ".", 1), 64)
		if err != nil || rate <= 0 {
			continue
		}
		t.entries[code] = Entry{
			Country: strings.TrimSpace(parts[0]),
			Name:    strings.TrimSpace(parts[1]),
			Code:    code,
			Amount:  amount,
			Rate:    rate,
		}
	}

	if len(t.entries) == 0 {
		return nil, errEmptyTable
	}
	return t, nil
}
