// Package services orchestrates purchase recording across the rate
// resolver, the in-memory store, and the AMQP sync pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vydaje/internal/amqp"
	"vydaje/internal/core"
	"vydaje/internal/metrics"
)

// RecordInput is the raw form data for a new purchase. Amount arrives as
// the user typed it; currency may be empty, in which case the country's
// currency applies.
type RecordInput struct {
	Date     core.Date
	Shop     string
	Country  string
	Currency string
	Amount   string
	Category string
	Note     string
}

// PurchaseService records purchases: resolves the exchange rate, converts
// to the home currency, stores the result, and publishes a sync message.
type PurchaseService struct {
	store     PurchaseStore
	resolver  RateResolver
	publisher SyncPublisher
}

func NewPurchaseService(store PurchaseStore, resolver RateResolver, publisher SyncPublisher) *PurchaseService {
	return &PurchaseService{
		store:     store,
		resolver:  resolver,
		publisher: publisher,
	}
}

// Record converts and stores a purchase, returning the stored record. A
// publish failure is logged but does not fail the request; the purchase is
// already recorded locally.
func (s *PurchaseService) Record(ctx context.Context, in RecordInput) (core.Purchase, error) {
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		code, ok := core.CurrencyForCountry(in.Country)
		if !ok {
			return core.Purchase{}, fmt.Errorf("no currency known for country %q: %w", in.Country, core.ErrInvalidCurrency)
		}
		currency = code
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("parse amount: %w", err)
	}
	amount := float64(cents) / 100

	res, err := s.resolver.Resolve(ctx, currency, in.Date.Time)
	metrics.ObserveResolve(res, err)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("resolve rate: %w", err)
	}

	p := core.Purchase{
		Date:      in.Date,
		Shop:      strings.TrimSpace(in.Shop),
		Country:   strings.TrimSpace(in.Country),
		Currency:  currency,
		Amount:    amount,
		Category:  strings.TrimSpace(in.Category),
		Note:      strings.TrimSpace(in.Note),
		Converted: core.Convert(amount, res.Rate),
		RateUsed:  res.Rate,
		RateDate:  core.Date{Time: res.ValidDate},
	}

	id, err := s.store.Append(ctx, p)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("store purchase: %w", err)
	}
	p.ID = id

	if err := s.publishSyncMessage(ctx, p); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"purchase_id", p.ID, "error", err)
		// Don't fail the request, the purchase is saved locally
	}

	return p, nil
}

// ListMonth returns the month's purchases, newest first.
func (s *PurchaseService) ListMonth(ctx context.Context, year, month int) ([]core.Purchase, error) {
	return s.store.ListMonth(ctx, year, month)
}

// ListAll returns every recorded purchase.
func (s *PurchaseService) ListAll(ctx context.Context) ([]core.Purchase, error) {
	return s.store.ListAll(ctx)
}

// MonthOverview returns converted totals per category for a month.
func (s *PurchaseService) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	return s.store.MonthOverview(ctx, year, month)
}

func (s *PurchaseService) publishSyncMessage(ctx context.Context, p core.Purchase) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	msg := &amqp.PurchaseSyncMessage{
		ID:             p.ID,
		Date:           p.Date.ISO(),
		Shop:           p.Shop,
		Country:        p.Country,
		Currency:       p.Currency,
		Amount:         p.Amount,
		Category:       p.Category,
		Note:           p.Note,
		ConvertedCents: p.Converted.Cents,
		Rate:           p.RateUsed,
		RateDate:       p.RateDate.ISO(),
		Timestamp:      time.Now(),
	}
	return s.publisher.PublishPurchaseSync(ctx, msg)
}
