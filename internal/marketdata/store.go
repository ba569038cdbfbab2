package marketdata

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"CanslimScout/internal/model"
)

// Trading-day window sizes used by the scoring and projection layers.
const (
	SixMonthDays = 126
	OneYearDays  = 252
	// The market-direction check needs a 200-day moving average; fetch a
	// little extra so holidays don't starve it.
	IndexDays = 300
)

// DefaultIndexSymbol is the benchmark index used for relative strength and
// market direction.
const DefaultIndexSymbol = "^GSPC"

const (
	defaultTTL        = 30 * time.Minute
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

type cacheEntry struct {
	fetchedAt time.Time
	payload   interface{}
}

// Store is the caching data-access layer in front of a Fetcher. Every lookup
// returns the payload or an explicit absent result; provider errors never
// cross this boundary. Entries live for one TTL window and are only ever
// replaced by a fresh fetch. Safe for concurrent use.
type Store struct {
	fetcher     Fetcher
	indexSymbol string
	ttl         time.Duration
	maxRetries  int
	retryDelay  time.Duration
	now         func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithTTL overrides the default 30-minute cache TTL.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.ttl = ttl }
}

// WithRetry overrides the retry policy. Delay between attempt n and n+1 is
// n × delay (linear backoff).
func WithRetry(attempts int, delay time.Duration) StoreOption {
	return func(s *Store) {
		s.maxRetries = attempts
		s.retryDelay = delay
	}
}

// WithIndexSymbol overrides the benchmark index symbol.
func WithIndexSymbol(symbol string) StoreOption {
	return func(s *Store) { s.indexSymbol = symbol }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over the given provider.
func NewStore(fetcher Fetcher, opts ...StoreOption) *Store {
	s := &Store{
		fetcher:     fetcher,
		indexSymbol: DefaultIndexSymbol,
		ttl:         defaultTTL,
		maxRetries:  defaultMaxRetries,
		retryDelay:  defaultRetryDelay,
		now:         time.Now,
		cache:       make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexSymbol returns the configured benchmark symbol.
func (s *Store) IndexSymbol() string { return s.indexSymbol }

func (s *Store) getCached(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok || s.now().Sub(entry.fetchedAt) >= s.ttl {
		return nil, false
	}
	return entry.payload, true
}

func (s *Store) setCached(key string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{fetchedAt: s.now(), payload: payload}
}

// fetchWithRetry runs fn up to maxRetries times with linear backoff. The
// fetch is idempotent, so a concurrent duplicate just overwrites the cache
// entry with an equivalent payload.
func (s *Store) fetchWithRetry(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, bool) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		payload, err := fn()
		if err == nil {
			s.setCached(key, payload)
			return payload, true
		}
		lastErr = err
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				log.Printf("[WARN] fetch %s cancelled: %v", key, ctx.Err())
				return nil, false
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			}
		}
	}
	log.Printf("[WARN] fetch %s failed after %d attempts: %v", key, s.maxRetries, lastErr)
	return nil, false
}

// PriceHistory returns up to `days` chronological daily bars, or absent.
func (s *Store) PriceHistory(ctx context.Context, ticker string, days int) ([]model.OHLCV, bool) {
	key := fmt.Sprintf("history_%s_%d", ticker, days)
	if cached, ok := s.getCached(key); ok {
		return cached.([]model.OHLCV), true
	}
	payload, ok := s.fetchWithRetry(ctx, key, func() (interface{}, error) {
		return s.fetcher.FetchDailyBars(ctx, ticker, days)
	})
	if !ok {
		return nil, false
	}
	return payload.([]model.OHLCV), true
}

// IndexHistory returns bars for the benchmark index, or absent.
func (s *Store) IndexHistory(ctx context.Context, days int) ([]model.OHLCV, bool) {
	return s.PriceHistory(ctx, s.indexSymbol, days)
}

// Snapshot returns the quote snapshot for a ticker, or absent.
func (s *Store) Snapshot(ctx context.Context, ticker string) (*model.Quote, bool) {
	key := fmt.Sprintf("quote_%s", ticker)
	if cached, ok := s.getCached(key); ok {
		return cached.(*model.Quote), true
	}
	payload, ok := s.fetchWithRetry(ctx, key, func() (interface{}, error) {
		return s.fetcher.FetchQuote(ctx, ticker)
	})
	if !ok {
		return nil, false
	}
	return payload.(*model.Quote), true
}

func (s *Store) financials(ctx context.Context, ticker string, quarterly bool) ([]model.FinancialPeriod, bool) {
	op := "annual"
	if quarterly {
		op = "quarterly"
	}
	key := fmt.Sprintf("%s_%s", op, ticker)
	if cached, ok := s.getCached(key); ok {
		return cached.([]model.FinancialPeriod), true
	}
	payload, ok := s.fetchWithRetry(ctx, key, func() (interface{}, error) {
		return s.fetcher.FetchIncomeStatements(ctx, ticker, quarterly)
	})
	if !ok {
		return nil, false
	}
	return payload.([]model.FinancialPeriod), true
}

// QuarterlyFinancials returns quarterly net-income periods, most recent
// first, or absent.
func (s *Store) QuarterlyFinancials(ctx context.Context, ticker string) ([]model.FinancialPeriod, bool) {
	return s.financials(ctx, ticker, true)
}

// AnnualFinancials returns annual net-income periods, most recent first,
// or absent.
func (s *Store) AnnualFinancials(ctx context.Context, ticker string) ([]model.FinancialPeriod, bool) {
	return s.financials(ctx, ticker, false)
}

// IsValidTicker reports whether the ticker has a snapshot with a usable
// current price.
func (s *Store) IsValidTicker(ctx context.Context, ticker string) bool {
	q, ok := s.Snapshot(ctx, ticker)
	return ok && q.HasPrice()
}
