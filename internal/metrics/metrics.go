// Package metrics exposes Prometheus collectors for the rate-resolution
// path, the only part of the app that talks to the outside world.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vydaje/internal/rates"
)

var (
	// FeedFetches counts rate-feed HTTP fetches by kind (daily/latest)
	// and outcome (ok/error).
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vydaje_feed_fetch_total",
		Help: "Rate feed fetches by kind and outcome.",
	}, []string{"kind", "outcome"})

	// Resolves counts resolve calls by outcome (ok/fallback/unavailable).
	Resolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vydaje_rate_resolve_total",
		Help: "Rate resolutions by outcome.",
	}, []string{"outcome"})

	// WalkDepth observes how many daily tables a successful resolve
	// consulted; a creeping depth means the feed is gappier than expected.
	WalkDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vydaje_rate_walk_depth",
		Help:    "Daily tables consulted per successful resolution.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

// ObserveResolve records the outcome of one resolver call.
func ObserveResolve(res rates.Result, err error) {
	switch {
	case err != nil:
		Resolves.WithLabelValues("unavailable").Inc()
	case res.UsedLatestFallback:
		Resolves.WithLabelValues("fallback").Inc()
		WalkDepth.Observe(float64(res.Attempts))
	default:
		Resolves.WithLabelValues("ok").Inc()
		if res.Attempts > 0 {
			WalkDepth.Observe(float64(res.Attempts))
		}
	}
}

// instrumentedFeed wraps a rates.Feed and counts every fetch.
type instrumentedFeed struct {
	inner rates.Feed
}

// WrapFeed returns a Feed that records fetch counters around the inner feed.
func WrapFeed(inner rates.Feed) rates.Feed {
	return &instrumentedFeed{inner: inner}
}

func (f *instrumentedFeed) Daily(ctx context.Context, date time.Time) (*rates.Table, error) {
	t, err := f.inner.Daily(ctx, date)
	FeedFetches.WithLabelValues("daily", outcome(err)).Inc()
	return t, err
}

func (f *instrumentedFeed) Latest(ctx context.Context) (*rates.Table, error) {
	t, err := f.inner.Latest(ctx)
	FeedFetches.WithLabelValues("latest", outcome(err)).Inc()
	return t, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
