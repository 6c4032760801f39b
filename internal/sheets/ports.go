package sheets

import (
	"context"

	"vydaje/internal/core"
)

// Ports for outbound adapters.
type (
	// PurchaseWriter appends a converted purchase to the export target and
	// returns a reference to the written row.
	PurchaseWriter interface {
		Append(ctx context.Context, p core.Purchase) (rowRef string, err error)
	}
)
