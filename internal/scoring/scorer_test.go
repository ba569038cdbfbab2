package scoring

import (
	"context"
	"reflect"
	"testing"
	"time"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
)

func fixtureFetcher() *marketdata.MockFetcher {
	quarterEnd := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	return &marketdata.MockFetcher{
		Quotes: map[string]*model.Quote{
			"AAPL": {
				Symbol: "AAPL", ShortName: "Apple Inc.", CurrentPrice: 97,
				High52Week: 100, AverageVolume: 5e7,
				InstitutionalPct: 45, InstitutionalKnown: true,
				Sector: "Technology",
			},
		},
		Daily: map[string][]model.OHLCV{
			"AAPL":  marketdata.GenerateBars(70, 30.0/300, 301, 1e6),
			"^GSPC": marketdata.GenerateBars(5000, 0, 301, 1e9),
		},
		Quarterly: map[string][]model.FinancialPeriod{
			"AAPL": {
				{End: quarterEnd, NetIncome: 130},
				{End: quarterEnd.AddDate(0, -3, 0), NetIncome: 100},
				{End: quarterEnd.AddDate(0, -6, 0), NetIncome: 90},
				{End: quarterEnd.AddDate(0, -9, 0), NetIncome: 85},
			},
		},
		Annual: map[string][]model.FinancialPeriod{
			"AAPL": {
				{End: quarterEnd, NetIncome: 400},
				{End: quarterEnd.AddDate(-1, 0, 0), NetIncome: 300},
				{End: quarterEnd.AddDate(-2, 0, 0), NetIncome: 200},
			},
		},
	}
}

func newFixtureStore(f marketdata.Fetcher) *marketdata.Store {
	return marketdata.NewStore(f, marketdata.WithRetry(1, 0))
}

func TestScorer_SubScoresWithinDeclaredMaxima(t *testing.T) {
	scorer := NewScorer(newFixtureStore(fixtureFetcher()))
	score := scorer.Score(context.Background(), "AAPL")

	checks := []struct {
		factor model.Factor
		value  float64
		max    float64
	}{
		{model.FactorCurrentEarnings, score.CurrentEarnings, model.MaxCurrentEarnings},
		{model.FactorAnnualEarnings, score.AnnualEarnings, model.MaxAnnualEarnings},
		{model.FactorNewHighs, score.NewHighs, model.MaxNewHighs},
		{model.FactorSupplyDemand, score.SupplyDemand, model.MaxSupplyDemand},
		{model.FactorLeader, score.Leader, model.MaxLeader},
		{model.FactorInstitutional, score.Institutional, model.MaxInstitutional},
		{model.FactorMarket, score.Market, model.MaxMarket},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > c.max {
			t.Errorf("factor %s = %.2f outside [0, %.0f]", c.factor, c.value, c.max)
		}
		if score.Details[c.factor] == "" {
			t.Errorf("factor %s has no rationale", c.factor)
		}
	}

	sum := score.CurrentEarnings + score.AnnualEarnings + score.NewHighs +
		score.SupplyDemand + score.Leader + score.Institutional + score.Market
	if score.Total != sum {
		t.Errorf("total %.4f is not the sum of sub-scores %.4f", score.Total, sum)
	}
}

func TestScorer_DeterministicOnFrozenData(t *testing.T) {
	scorer := NewScorer(newFixtureStore(fixtureFetcher()))
	first := scorer.Score(context.Background(), "AAPL")
	second := scorer.Score(context.Background(), "AAPL")
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated scoring of frozen data produced different results")
	}
}

func TestScorer_MarketDirectionMemoized(t *testing.T) {
	mock := &marketdata.MockFetcher{
		Daily: map[string][]model.OHLCV{
			"^GSPC": marketdata.GenerateBars(4000, 5, 300, 1e9),
		},
	}
	scorer := NewScorer(newFixtureStore(mock))

	first := scorer.MarketDirection(context.Background())
	second := scorer.MarketDirection(context.Background())
	if first != second {
		t.Error("market direction changed between calls within one run")
	}
	if got := mock.Calls(); got != 1 {
		t.Errorf("expected a single index fetch, got %d", got)
	}
	if first.Score != 15.0 {
		t.Errorf("steadily rising index should be bullish, got %.1f (%s)", first.Score, first.Detail)
	}
}

func TestScorer_MarketLabel(t *testing.T) {
	mock := &marketdata.MockFetcher{
		Daily: map[string][]model.OHLCV{
			"^GSPC": marketdata.GenerateBars(4000, 5, 300, 1e9),
		},
	}
	scorer := NewScorer(newFixtureStore(mock))
	label, detail := scorer.MarketLabel(context.Background())
	if label != "BULLISH" {
		t.Errorf("expected BULLISH, got %s", label)
	}
	if detail != "bullish market" {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestScorer_MissingDataYieldsDefaults(t *testing.T) {
	// A ticker with a price snapshot but no financials and no history: C, A,
	// S, L all zero with rationale; I falls back to the default; N still
	// computes from the snapshot.
	mock := &marketdata.MockFetcher{
		Quotes: map[string]*model.Quote{
			"NEWCO": {Symbol: "NEWCO", ShortName: "NewCo", CurrentPrice: 50, High52Week: 52},
		},
		Daily: map[string][]model.OHLCV{
			"^GSPC": marketdata.GenerateBars(4000, 5, 300, 1e9),
		},
	}
	scorer := NewScorer(newFixtureStore(mock))
	score := scorer.Score(context.Background(), "NEWCO")

	if score.CurrentEarnings != 0 || score.AnnualEarnings != 0 {
		t.Error("earnings factors should be zero without financials")
	}
	if score.SupplyDemand != 0 || score.Leader != 0 {
		t.Error("history factors should be zero without price history")
	}
	if score.Institutional != InstitutionalDefaultScore {
		t.Errorf("institutional = %.1f, want default %.1f", score.Institutional, InstitutionalDefaultScore)
	}
	if score.NewHighs != 15.0 {
		t.Errorf("new highs = %.1f, want 15 (within 5%% of high)", score.NewHighs)
	}
	if score.Details[model.FactorCurrentEarnings] != "no quarterly data available" {
		t.Errorf("unexpected C rationale %q", score.Details[model.FactorCurrentEarnings])
	}
}
