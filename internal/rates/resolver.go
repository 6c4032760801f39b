// Package rates resolves foreign-currency exchange rates against the Czech
// koruna from the CNB daily publication.
//
// The publication appears once per business day, so a requested date often
// has no table of its own (weekends, holidays, queries before the daily
// cutoff). The resolver walks backward day by day, bounded, until it finds a
// table carrying the requested currency, caching every fetched table for the
// life of the process. It never invents a rate: the only fatal outcome is a
// typed *UnavailableError.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultWalkBackLimitDays bounds the backward walk; the longest
	// publication gaps (Christmas, Easter) fit comfortably inside a week.
	DefaultWalkBackLimitDays = 7

	// DefaultHomeCurrency resolves to 1.0 without any I/O.
	DefaultHomeCurrency = "CZK"
)

// The daily table is published at 14:30 Prague time; before that moment the
// current day's table does not exist yet.
const (
	cutoffHour   = 14
	cutoffMinute = 30
)

// Options configures a Resolver. The zero value gives CZK home currency, a
// 7-day walk, no cutoff shift, no latest-table fallback and no proxies.
type Options struct {
	// HomeCurrency short-circuits to rate 1.0 for any date.
	HomeCurrency string

	// WalkBackLimitDays is the number of calendar days the resolver may
	// step back past the requested date.
	WalkBackLimitDays int

	// CutoffPolicy shifts a request for the current date back one day when
	// the wall clock is before the 14:30 publication cutoff.
	CutoffPolicy bool

	// AllowLatestFallback permits one fetch of the undated "latest" table
	// after the walk is exhausted. Results obtained this way are flagged.
	AllowLatestFallback bool

	// Proxies maps currencies absent from the publication to a published
	// stand-in (e.g. HRK -> EUR after Croatia joined the euro). A proxied
	// code resolves through the same walk as its stand-in. Chained proxies
	// are rejected at construction.
	Proxies map[string]string
}

// Result is a successfully resolved rate.
type Result struct {
	// Rate is expressed as CZK per 1 unit of the requested currency; the
	// publication's lot size is already divided out.
	Rate float64

	// ValidDate is the date the rate was published for. It can be earlier
	// than the requested date when the walk stepped back.
	ValidDate time.Time

	// UsedLatestFallback marks a rate taken from the undated latest table
	// after the bounded walk failed. Callers should warn the user that the
	// conversion used a substantially different date than requested.
	UsedLatestFallback bool

	// Attempts is the number of daily tables consulted.
	Attempts int
}

// Resolver turns (currency, date) queries into per-unit CZK rates. It is
// stateless apart from the per-date table cache and safe for concurrent use.
type Resolver struct {
	feed Feed
	opts Options
	now  func() time.Time
	loc  *time.Location

	mu    sync.Mutex
	cache map[string]*Table // ISO date -> table; nil marks a known-missing day
}

// New validates the options and builds a Resolver around the given feed.
func New(feed Feed, opts Options) (*Resolver, error) {
	if feed == nil {
		return nil, errors.New("rates: nil feed")
	}
	if opts.HomeCurrency == "" {
		opts.HomeCurrency = DefaultHomeCurrency
	}
	opts.HomeCurrency = strings.ToUpper(opts.HomeCurrency)
	if opts.WalkBackLimitDays <= 0 {
		opts.WalkBackLimitDays = DefaultWalkBackLimitDays
	}

	normalized := make(map[string]string, len(opts.Proxies))
	for from, to := range opts.Proxies {
		from, to = strings.ToUpper(from), strings.ToUpper(to)
		if from == to {
			return nil, fmt.Errorf("rates: proxy %s maps to itself", from)
		}
		normalized[from] = to
	}
	for from, to := range normalized {
		if _, chained := normalized[to]; chained {
			return nil, fmt.Errorf("rates: proxy chain %s -> %s -> %s", from, to, normalized[to])
		}
	}
	opts.Proxies = normalized

	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		loc = time.UTC
	}

	return &Resolver{
		feed:  feed,
		opts:  opts,
		now:   time.Now,
		loc:   loc,
		cache: make(map[string]*Table),
	}, nil
}

// Resolve returns the per-unit CZK rate for the currency code applicable on
// the requested date. The failure mode is always a *UnavailableError; fetch
// and parse problems for individual days are absorbed into the walk.
func (r *Resolver) Resolve(ctx context.Context, code string, requested time.Time) (Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	requested = midnight(requested)

	if code == r.opts.HomeCurrency {
		return Result{Rate: 1.0, ValidDate: requested}, nil
	}

	if proxy, ok := r.opts.Proxies[code]; ok {
		slog.DebugContext(ctx, "Resolving through proxy currency",
			"currency", code, "proxy", proxy)
		res, err := r.Resolve(ctx, proxy, requested)
		if err != nil {
			var ue *UnavailableError
			if errors.As(err, &ue) {
				return Result{}, &UnavailableError{
					Currency:      code,
					RequestedDate: requested,
					DaysAttempted: ue.DaysAttempted,
				}
			}
			return Result{}, err
		}
		return res, nil
	}

	start := requested
	if r.opts.CutoffPolicy && r.beforeCutoff(requested) {
		start = start.AddDate(0, 0, -1)
	}

	attempts := r.opts.WalkBackLimitDays + 1
	for i := 0; i < attempts; i++ {
		candidate := start.AddDate(0, 0, -i)
		table := r.table(ctx, candidate)
		if table == nil {
			continue
		}
		if rate, ok := table.Lookup(code); ok {
			valid := table.Date
			if valid.IsZero() {
				valid = candidate
			}
			return Result{Rate: rate, ValidDate: valid, Attempts: i + 1}, nil
		}
	}

	if r.opts.AllowLatestFallback {
		if table, err := r.feed.Latest(ctx); err == nil {
			if rate, ok := table.Lookup(code); ok {
				slog.WarnContext(ctx, "Rate resolved from latest table, not the requested date",
					"currency", code, "requested_date", requested.Format("2006-01-02"))
				return Result{
					Rate:               rate,
					ValidDate:          midnight(r.now()),
					UsedLatestFallback: true,
					Attempts:           attempts + 1,
				}, nil
			}
		}
	}

	return Result{}, &UnavailableError{
		Currency:      code,
		RequestedDate: requested,
		DaysAttempted: attempts,
	}
}

// table returns the parsed table for a date, consulting the cache first.
// Days that failed to fetch or parse are cached as missing so a weekend is
// only probed once per process. Concurrent callers may fetch the same date
// twice; both write the same parsed result, which is harmless.
func (r *Resolver) table(ctx context.Context, date time.Time) *Table {
	key := date.Format("2006-01-02")

	r.mu.Lock()
	table, cached := r.cache[key]
	r.mu.Unlock()
	if cached {
		return table
	}

	table, err := r.feed.Daily(ctx, date)
	if err != nil {
		slog.DebugContext(ctx, "No rate table for date",
			"date", key, "error", err)
		table = nil
	}

	r.mu.Lock()
	r.cache[key] = table
	r.mu.Unlock()
	return table
}

// beforeCutoff reports whether the requested date is today and the wall
// clock has not yet reached the publication cutoff.
func (r *Resolver) beforeCutoff(requested time.Time) bool {
	now := r.now().In(r.loc)
	if requested.Year() != now.Year() || requested.YearDay() != now.YearDay() {
		return false
	}
	return now.Hour() < cutoffHour ||
		(now.Hour() == cutoffHour && now.Minute() < cutoffMinute)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
