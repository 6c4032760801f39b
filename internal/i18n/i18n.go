// Package i18n holds the UI string tables. The diary started life as a
// bilingual Slovak/Czech app with an English switch, and both tables are kept
// in full key parity so a language toggle can never surface a missing string.
package i18n

import (
	"fmt"
	"sort"
)

// Lang selects a string table.
type Lang string

const (
	SK Lang = "sk" // combined Slovak/Czech table
	EN Lang = "en"

	Default = SK
)

// Parse returns the Lang for a raw query/cookie value, falling back to the
// default for anything unknown.
func Parse(s string) Lang {
	switch Lang(s) {
	case SK, EN:
		return Lang(s)
	default:
		return Default
	}
}

var tables = map[Lang]map[string]string{
	SK: {
		"app.title":       "Výdavkový denník / Výdajový deník",
		"app.intro":       "CZK = vždy 1:1. Ostatné meny podľa denného kurzu ČNB. Ak pre vybraný deň nie je kurz, použije sa posledný dostupný kurz.",
		"form.add":        "Pridať nákup / Přidat nákup",
		"form.date":       "Dátum nákupu / Datum nákupu",
		"form.shop":       "Obchod / miesto",
		"form.country":    "Krajina",
		"form.currency":   "Mena / Měna",
		"form.amount":     "Suma / Částka",
		"form.category":   "Kategória / Kategorie",
		"form.note":       "Poznámka",
		"form.save":       "Uložiť nákup / Uložit nákup",
		"saved":           "Záznam uložený! / Záznam uložen!",
		"rate.applied":    "Použitý kurz",
		"rate.asof":       "k",
		"rate.fallback":   "Kurz je z dnešnej tabuľky, nie z požadovaného dátumu.",
		"rate.err":        "Kurz sa nepodarilo načítať. / Kurz se nepodařilo načíst.",
		"list.title":      "Zoznam nákupov / Seznam nákupů",
		"summary.title":   "Súhrn mesačných výdavkov / Souhrn měsíčních výdajů",
		"summary.total":   "Celkové výdavky / Celkové výdaje",
		"summary.top":     "Najviac si minul(a) na %s (%.1f %% z celkových výdavkov).",
		"summary.warn":    "Pozor! Na zábavu míňaš viac ako 30 %. Skús odložiť časť bokom na nečakané výdavky.",
		"export.csv":      "Exportovať do CSV",
		"empty":           "Zatiaľ nemáš žiadne nákupy. Pridaj aspoň jeden a uvidíš svoje dáta.",
		"invalid.form":    "Neplatný formulár.",
		"invalid.amount":  "Neplatná suma.",
		"invalid.date":    "Neplatný dátum.",
		"invalid.country": "Neznáma krajina.",
	},
	EN: {
		"app.title":       "Expense Diary",
		"app.intro":       "CZK = always 1:1. Other currencies follow CNB daily rates. If no rate is available for the selected date, the last available rate is used.",
		"form.add":        "Add purchase",
		"form.date":       "Purchase date",
		"form.shop":       "Shop / place",
		"form.country":    "Country",
		"form.currency":   "Currency",
		"form.amount":     "Amount",
		"form.category":   "Category",
		"form.note":       "Note",
		"form.save":       "Save purchase",
		"saved":           "Saved!",
		"rate.applied":    "Applied rate",
		"rate.asof":       "as of",
		"rate.fallback":   "Rate taken from today's table, not the requested date.",
		"rate.err":        "Could not fetch exchange rate.",
		"list.title":      "Purchase list",
		"summary.title":   "Monthly expenses summary",
		"summary.total":   "Total expenses",
		"summary.top":     "Most of your spending went to %s (%.1f%% of total expenses).",
		"summary.warn":    "Watch out! You're spending more than 30% on entertainment. Try saving a portion for unexpected expenses.",
		"export.csv":      "Export CSV",
		"empty":           "No purchases yet. Add at least one to see your data.",
		"invalid.form":    "Invalid form.",
		"invalid.amount":  "Invalid amount.",
		"invalid.date":    "Invalid date.",
		"invalid.country": "Unknown country.",
	},
}

// T returns the string for key in the given language. Unknown keys return the
// key itself so a template typo is visible rather than blank.
func T(lang Lang, key string) string {
	if s, ok := tables[lang][key]; ok {
		return s
	}
	return key
}

// Table returns the whole string table for a language, for handing to
// templates.
func Table(lang Lang) map[string]string {
	return tables[lang]
}

// Validate checks that every language table carries exactly the same keys.
// Called from tests and at startup.
func Validate() error {
	ref := keysOf(tables[Default])
	for lang, table := range tables {
		if lang == Default {
			continue
		}
		got := keysOf(table)
		if len(got) != len(ref) {
			return fmt.Errorf("i18n: %s has %d keys, %s has %d", lang, len(got), Default, len(ref))
		}
		for i := range ref {
			if got[i] != ref[i] {
				return fmt.Errorf("i18n: key mismatch between %s and %s: %q vs %q", lang, Default, got[i], ref[i])
			}
		}
	}
	return nil
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
