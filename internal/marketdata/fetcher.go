package marketdata

import (
	"context"

	"CanslimScout/internal/model"
)

// Fetcher defines the interface to the external market-data provider.
// Implementations return raw payloads and errors; caching, retries and
// absent-data semantics live in Store.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	FetchIncomeStatements(ctx context.Context, symbol string, quarterly bool) ([]model.FinancialPeriod, error)
	Name() string
}
