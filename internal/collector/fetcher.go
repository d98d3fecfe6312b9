// Package collector fetches price histories and symbol metadata from a
// market data provider.
package collector

import (
	"context"

	"pulse/internal/model"
)

// Fetcher defines the interface for fetching market data. Either call may
// fail or return incomplete data at any time; callers are expected to
// degrade per symbol rather than abort.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string) (*model.PriceSeries, error)
	FetchMeta(ctx context.Context, symbol string) (*model.SymbolMeta, error)
	Name() string
}
