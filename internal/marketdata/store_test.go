package marketdata

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"CanslimScout/internal/model"
)

func newTestStore(f Fetcher, now *time.Time, opts ...StoreOption) *Store {
	base := []StoreOption{
		WithRetry(3, 0), // no sleeping in tests
		WithClock(func() time.Time { return *now }),
	}
	return NewStore(f, append(base, opts...)...)
}

func TestStore_CacheHitWithinTTL(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Daily: map[string][]model.OHLCV{"AAPL": GenerateBars(100, 0.5, 60, 1e6)},
	}
	store := newTestStore(mock, &now)

	first, ok := store.PriceHistory(context.Background(), "AAPL", 60)
	if !ok {
		t.Fatal("expected price history")
	}
	second, ok := store.PriceHistory(context.Background(), "AAPL", 60)
	if !ok {
		t.Fatal("expected cached price history")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached payload differs from original")
	}
	if got := mock.Calls(); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
}

func TestStore_TTLExpiryRefetches(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Quotes: map[string]*model.Quote{"MSFT": {Symbol: "MSFT", CurrentPrice: 400}},
	}
	store := newTestStore(mock, &now, WithTTL(30*time.Minute))

	if _, ok := store.Snapshot(context.Background(), "MSFT"); !ok {
		t.Fatal("expected snapshot")
	}
	now = now.Add(31 * time.Minute)
	if _, ok := store.Snapshot(context.Background(), "MSFT"); !ok {
		t.Fatal("expected refreshed snapshot")
	}
	if got := mock.Calls(); got != 2 {
		t.Errorf("expected 2 provider calls after expiry, got %d", got)
	}
}

func TestStore_DistinctParamsAreDistinctEntries(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Daily: map[string][]model.OHLCV{"AAPL": GenerateBars(100, 0.5, 300, 1e6)},
	}
	store := newTestStore(mock, &now)

	store.PriceHistory(context.Background(), "AAPL", 126)
	store.PriceHistory(context.Background(), "AAPL", 252)
	if got := mock.Calls(); got != 2 {
		t.Errorf("expected separate fetches per parameter, got %d calls", got)
	}
}

func TestStore_RetrySucceedsOnThirdAttempt(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Quotes:    map[string]*model.Quote{"NVDA": {Symbol: "NVDA", CurrentPrice: 900}},
		FailCalls: 2,
	}
	store := newTestStore(mock, &now)

	q, ok := store.Snapshot(context.Background(), "NVDA")
	if !ok {
		t.Fatal("expected snapshot after retries")
	}
	if q.CurrentPrice != 900 {
		t.Errorf("unexpected price %.2f", q.CurrentPrice)
	}
	if got := mock.Calls(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestStore_AbsentAfterExhaustedRetries(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{Err: errors.New("provider down")}
	store := newTestStore(mock, &now)

	if _, ok := store.Snapshot(context.Background(), "AAPL"); ok {
		t.Error("expected absent result, not a payload")
	}
	if got := mock.Calls(); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
	// Failures are not cached: the next call tries the provider again.
	store.Snapshot(context.Background(), "AAPL")
	if got := mock.Calls(); got != 6 {
		t.Errorf("expected a fresh round of attempts, got %d total calls", got)
	}
}

func TestStore_IsValidTicker(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Quotes: map[string]*model.Quote{
			"GOOD": {Symbol: "GOOD", CurrentPrice: 50},
			"ZERO": {Symbol: "ZERO", CurrentPrice: 0},
		},
	}
	store := newTestStore(mock, &now)

	ctx := context.Background()
	if !store.IsValidTicker(ctx, "GOOD") {
		t.Error("GOOD should be valid")
	}
	if store.IsValidTicker(ctx, "ZERO") {
		t.Error("ZERO has no usable price and should be invalid")
	}
	if store.IsValidTicker(ctx, "MISSING") {
		t.Error("MISSING has no snapshot and should be invalid")
	}
}

func TestStore_IndexHistoryUsesConfiguredSymbol(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock := &MockFetcher{
		Daily: map[string][]model.OHLCV{"^GSPC": GenerateBars(5000, 1, 300, 1e9)},
	}
	store := newTestStore(mock, &now)

	bars, ok := store.IndexHistory(context.Background(), IndexDays)
	if !ok {
		t.Fatal("expected index history")
	}
	if len(bars) != 300 {
		t.Errorf("expected 300 bars, got %d", len(bars))
	}
}
