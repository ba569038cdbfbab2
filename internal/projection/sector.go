package projection

import (
	"context"
	"sync"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
)

// sectorMomentum computes six-month sector-ETF outperformance versus the
// index, memoized per sector so each run fetches every ETF at most once.
type sectorMomentum struct {
	store *marketdata.Store
	etfs  map[string]string

	mu   sync.Mutex
	memo map[string]float64 // sector → outperformance in percentage points
}

func newSectorMomentum(store *marketdata.Store, etfs map[string]string) *sectorMomentum {
	return &sectorMomentum{
		store: store,
		etfs:  etfs,
		memo:  make(map[string]float64),
	}
}

// component returns the sector contribution for a quote's sector. An empty
// or unmapped sector yields a zero contribution whose weight still counts;
// a mapped sector whose data cannot be fetched is treated as absent so its
// weight is redistributed.
func (s *sectorMomentum) component(ctx context.Context, sector string) component {
	etf, mapped := s.etfs[sector]
	if sector == "" || !mapped {
		return component{value: 0, weight: model.WeightSector, weightUsed: true}
	}

	out, ok := s.outperformance(ctx, sector, etf)
	if !ok {
		return absentComponent(model.WeightSector)
	}

	var bonus float64
	switch {
	case out > 5:
		bonus = out * 0.5
	case out > 0:
		bonus = out * 0.3
	default:
		bonus = out * 0.2
	}
	return component{bonus, model.WeightSector, true, true}
}

func (s *sectorMomentum) outperformance(ctx context.Context, sector, etf string) (float64, bool) {
	s.mu.Lock()
	if out, ok := s.memo[sector]; ok {
		s.mu.Unlock()
		return out, true
	}
	s.mu.Unlock()

	etfReturn, ok := s.periodReturn(ctx, etf)
	if !ok {
		return 0, false
	}
	indexReturn, ok := s.indexReturn(ctx)
	if !ok {
		return 0, false
	}
	out := etfReturn - indexReturn

	s.mu.Lock()
	s.memo[sector] = out
	s.mu.Unlock()
	return out, true
}

func (s *sectorMomentum) periodReturn(ctx context.Context, symbol string) (float64, bool) {
	bars, ok := s.store.PriceHistory(ctx, symbol, marketdata.SixMonthDays)
	if !ok {
		return 0, false
	}
	return barsReturn(bars)
}

func (s *sectorMomentum) indexReturn(ctx context.Context) (float64, bool) {
	bars, ok := s.store.IndexHistory(ctx, marketdata.SixMonthDays)
	if !ok {
		return 0, false
	}
	return barsReturn(bars)
}

// barsReturn is the percentage change from the first to the last close.
func barsReturn(bars []model.OHLCV) (float64, bool) {
	if len(bars) < 2 {
		return 0, false
	}
	first := bars[0].Close
	last := bars[len(bars)-1].Close
	if first <= 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}
