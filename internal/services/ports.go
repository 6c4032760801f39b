package services

import (
	"context"
	"time"

	"vydaje/internal/amqp"
	"vydaje/internal/core"
	"vydaje/internal/rates"
)

// Ports the purchase service depends on.
type (
	PurchaseStore interface {
		Append(ctx context.Context, p core.Purchase) (int64, error)
		ListAll(ctx context.Context) ([]core.Purchase, error)
		ListMonth(ctx context.Context, year, month int) ([]core.Purchase, error)
		MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error)
	}

	RateResolver interface {
		Resolve(ctx context.Context, code string, requested time.Time) (rates.Result, error)
	}

	SyncPublisher interface {
		PublishPurchaseSync(ctx context.Context, msg *amqp.PurchaseSyncMessage) error
	}
)
