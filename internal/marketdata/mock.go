package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CanslimScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without fixtures behave like unknown tickers.
type MockFetcher struct {
	Quotes    map[string]*model.Quote
	Daily     map[string][]model.OHLCV
	Quarterly map[string][]model.FinancialPeriod
	Annual    map[string][]model.FinancialPeriod

	// Err, when set, is returned by every call. FailCalls makes the first N
	// calls fail before succeeding, for retry tests.
	Err       error
	FailCalls int

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many fetch calls reached the provider.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) count() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return m.Err
	}
	if m.FailCalls > 0 {
		m.FailCalls--
		return fmt.Errorf("mock: transient failure")
	}
	return nil
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := m.count(); err != nil {
		return nil, err
	}
	bars, ok := m.Daily[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no bars for %s", symbol)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	if err := m.count(); err != nil {
		return nil, err
	}
	q, ok := m.Quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no quote for %s", symbol)
	}
	return q, nil
}

func (m *MockFetcher) FetchIncomeStatements(_ context.Context, symbol string, quarterly bool) ([]model.FinancialPeriod, error) {
	if err := m.count(); err != nil {
		return nil, err
	}
	src := m.Annual
	if quarterly {
		src = m.Quarterly
	}
	periods, ok := src[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no financials for %s", symbol)
	}
	return periods, nil
}

// GenerateBars builds a synthetic linear daily price series ending today,
// with uniform volume. Useful for pipeline and projection fixtures.
func GenerateBars(startPrice, dailyStep float64, count int, volume float64) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := startPrice + dailyStep*float64(i)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: volume,
		}
	}
	return bars
}
