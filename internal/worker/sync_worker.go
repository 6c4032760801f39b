// Package worker turns purchase sync messages into Google Sheets rows.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vydaje/internal/amqp"
	"vydaje/internal/core"
	"vydaje/internal/sheets"
)

// SyncWorker handles synchronization of recorded purchases to Google Sheets.
type SyncWorker struct {
	writer sheets.PurchaseWriter
}

func NewSyncWorker(writer sheets.PurchaseWriter) *SyncWorker {
	return &SyncWorker{writer: writer}
}

// HandleSyncMessage processes a single purchase sync message from AMQP.
// The message carries the full purchase; the web app's store is
// process-local so there is nothing to look up here.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PurchaseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"purchase_id", msg.ID,
		"currency", msg.Currency)

	purchase, err := purchaseFromMessage(msg)
	if err != nil {
		// A malformed message will never succeed; report it so the
		// consumer drops it instead of requeueing forever.
		slog.ErrorContext(ctx, "Discarding malformed sync message",
			"purchase_id", msg.ID, "error", err)
		return nil
	}

	ref, err := w.writer.Append(ctx, purchase)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Successfully synced purchase",
		"purchase_id", msg.ID,
		"sheets_ref", ref,
		"amount_cents", purchase.Converted.Cents)

	return nil
}

// purchaseFromMessage rebuilds the core purchase from the wire message.
func purchaseFromMessage(msg *amqp.PurchaseSyncMessage) (core.Purchase, error) {
	date, err := time.Parse("2006-01-02", msg.Date)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("parse date %q: %w", msg.Date, err)
	}
	rateDate, err := time.Parse("2006-01-02", msg.RateDate)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("parse rate date %q: %w", msg.RateDate, err)
	}

	p := core.Purchase{
		ID:        msg.ID,
		Date:      core.Date{Time: date},
		Shop:      msg.Shop,
		Country:   msg.Country,
		Currency:  msg.Currency,
		Amount:    msg.Amount,
		Category:  msg.Category,
		Note:      msg.Note,
		Converted: core.Money{Cents: msg.ConvertedCents},
		RateUsed:  msg.Rate,
		RateDate:  core.Date{Time: rateDate},
	}
	if err := p.Validate(); err != nil {
		return core.Purchase{}, err
	}
	return p, nil
}
