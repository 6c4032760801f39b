// Package tips produces the diary's flavor messages: category-threshold
// remarks after a save and a small seasonal note. Selection is deterministic
// (keyed on the category total) so the same month shows the same message.
package tips

import (
	"time"

	"vydaje/internal/core"
	"vydaje/internal/i18n"
)

// Thresholds in CZK cents over which a category earns a remark.
const (
	groceriesThreshold     = 600000
	entertainmentThreshold = 200000
	drugstoreThreshold     = 200000
)

var remarks = map[i18n.Lang]map[string][]string{
	i18n.SK: {
		"Groceries": {
			"Potraviny niečo stoja – pri väčšej rodine je to prirodzené.",
			"Tento mesiac vyzerá ako zásoba na celú zimu!",
		},
		"Entertainment": {
			"Zábavy nikdy nie je dosť! Len pozor, aby ti ešte zostalo aj na chlebík.",
		},
		"Drugstore": {
			"Drogéria je drahá, hlavne keď sú v tom deti.",
		},
		"Electronics": {
			"Nový kúsok? Nech dlho slúži a uľahčí deň.",
		},
	},
	i18n.EN: {
		"Groceries": {
			"Groceries are pricey – with a bigger family, that's normal.",
			"This month looks like stocking up for the whole winter!",
		},
		"Entertainment": {
			"There's never too much fun! Just keep a little left for bread.",
		},
		"Drugstore": {
			"Drugstore items can be expensive, especially with kids.",
		},
		"Electronics": {
			"New gadget? May it last and make life easier.",
		},
	},
}

var seasonal = map[i18n.Lang]map[time.Month]string{
	i18n.SK: {
		time.December: "December býva drahý mesiac – darčeky sa počítajú dvakrát.",
		time.July:     "Dovolenkové výdavky sa oplatí zapisovať hneď, nie po návrate.",
	},
	i18n.EN: {
		time.December: "December tends to be expensive – gifts count double.",
		time.July:     "Holiday spending is easiest to log right away, not after the trip.",
	},
}

// ForOverview returns the remarks earned by a month's category totals.
func ForOverview(lang i18n.Lang, o core.MonthOverview) []string {
	thresholds := map[string]int64{
		"Groceries":     groceriesThreshold,
		"Entertainment": entertainmentThreshold,
		"Drugstore":     drugstoreThreshold,
	}

	var out []string
	for _, c := range o.ByCategory {
		limit, watched := thresholds[c.Name]
		if !watched || c.Amount.Cents <= limit {
			continue
		}
		if msg, ok := pick(lang, c.Name, c.Amount.Cents); ok {
			out = append(out, msg)
		}
	}
	return out
}

// ForPurchase returns a remark triggered by a single purchase, currently
// only for electronics.
func ForPurchase(lang i18n.Lang, p core.Purchase) (string, bool) {
	if p.Category != "Electronics" {
		return "", false
	}
	return pick(lang, "Electronics", p.Converted.Cents)
}

// Seasonal returns the note for the month, if any.
func Seasonal(lang i18n.Lang, month time.Month) (string, bool) {
	msg, ok := seasonal[lang][month]
	return msg, ok
}

func pick(lang i18n.Lang, category string, seed int64) (string, bool) {
	candidates := remarks[lang][category]
	if len(candidates) == 0 {
		return "", false
	}
	if seed < 0 {
		seed = -seed
	}
	return candidates[seed%int64(len(candidates))], true
}
