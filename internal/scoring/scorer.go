package scoring

import (
	"context"
	"sync"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
)

// Scorer computes CANSLIM factor scores from the data-access layer. The
// market-direction factor is identical for every ticker and is computed once
// per Scorer; create a fresh Scorer per pipeline run.
type Scorer struct {
	store *marketdata.Store

	marketOnce sync.Once
	market     FactorResult
}

// NewScorer creates a Scorer over the given store.
func NewScorer(store *marketdata.Store) *Scorer {
	return &Scorer{store: store}
}

// MarketDirection returns the memoized M factor, computing it on first use.
func (s *Scorer) MarketDirection(ctx context.Context) FactorResult {
	s.marketOnce.Do(func() {
		index, ok := s.store.IndexHistory(ctx, marketdata.IndexDays)
		if !ok {
			s.market = FactorResult{MarketDefaultScore, "market data limited"}
			return
		}
		s.market = scoreMarket(index)
	})
	return s.market
}

// MarketLabel translates the memoized M factor into a coarse direction label.
func (s *Scorer) MarketLabel(ctx context.Context) (label, detail string) {
	m := s.MarketDirection(ctx)
	switch {
	case m.Score >= 12:
		label = "BULLISH"
	case m.Score >= 8:
		label = "NEUTRAL"
	default:
		label = "BEARISH"
	}
	return label, m.Detail
}

// Score computes the full seven-factor score for a ticker. Missing data
// yields the documented zero/default sub-scores with explanatory rationale;
// Score itself never fails. Callers exclude tickers without a usable price
// snapshot before scoring.
func (s *Scorer) Score(ctx context.Context, ticker string) *model.FactorScore {
	var c, a, n, i FactorResult

	if quarterly, ok := s.store.QuarterlyFinancials(ctx, ticker); ok {
		c = scoreCurrentEarnings(model.NetIncomes(quarterly))
	} else {
		c = FactorResult{0, "no quarterly data available"}
	}

	if annual, ok := s.store.AnnualFinancials(ctx, ticker); ok {
		a = scoreAnnualEarnings(model.NetIncomes(annual))
	} else {
		a = FactorResult{0, "no annual data available"}
	}

	quote, quoteOK := s.store.Snapshot(ctx, ticker)
	if quoteOK {
		n = scoreNewHighs(quote.CurrentPrice, quote.High52Week)
		i = scoreInstitutional(quote.InstitutionalPct, quote.InstitutionalKnown)
	} else {
		n = FactorResult{0, "price data unavailable"}
		i = FactorResult{InstitutionalDefaultScore, "ownership data unavailable"}
	}

	var sd, l FactorResult
	history, historyOK := s.store.PriceHistory(ctx, ticker, marketdata.OneYearDays)
	if historyOK {
		sd = scoreSupplyDemand(history)
	} else {
		sd = FactorResult{0, "insufficient historical data"}
	}

	index, indexOK := s.store.IndexHistory(ctx, marketdata.OneYearDays)
	if historyOK && indexOK {
		l = scoreLeader(history, index)
	} else {
		l = FactorResult{0, "insufficient data for RS calculation"}
	}

	m := s.MarketDirection(ctx)

	return &model.FactorScore{
		Ticker:          ticker,
		CurrentEarnings: c.Score,
		AnnualEarnings:  a.Score,
		NewHighs:        n.Score,
		SupplyDemand:    sd.Score,
		Leader:          l.Score,
		Institutional:   i.Score,
		Market:          m.Score,
		Total:           c.Score + a.Score + n.Score + sd.Score + l.Score + i.Score + m.Score,
		Details: map[model.Factor]string{
			model.FactorCurrentEarnings: c.Detail,
			model.FactorAnnualEarnings:  a.Detail,
			model.FactorNewHighs:        n.Detail,
			model.FactorSupplyDemand:    sd.Detail,
			model.FactorLeader:          l.Detail,
			model.FactorInstitutional:   i.Detail,
			model.FactorMarket:          m.Detail,
		},
	}
}
