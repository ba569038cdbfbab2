package scoring

import (
	"math"
	"testing"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
)

func TestScoreCurrentEarnings(t *testing.T) {
	tests := []struct {
		name       string
		netIncomes []float64
		want       float64
	}{
		{"exactly 25% growth gives full score", []float64{125, 100}, 15.0},
		{"12.5% growth gives half score", []float64{112.5, 100}, 7.5},
		{"above 25% capped at full score", []float64{300, 100}, 15.0},
		{"declining earnings score zero", []float64{80, 100}, 0},
		{"turnaround from loss fixed at 25%", []float64{-10, -100}, 15.0},
		{"deepening loss scores zero", []float64{-200, -100}, 0},
		{"zero previous quarter scores zero", []float64{50, 0}, 0},
		{"single quarter is insufficient", []float64{100}, 0},
		{"no data is insufficient", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCurrentEarnings(tt.netIncomes)
			if math.Abs(got.Score-tt.want) > 1e-9 {
				t.Errorf("score = %.4f, want %.4f (%s)", got.Score, tt.want, got.Detail)
			}
			if got.Detail == "" {
				t.Error("expected a rationale string")
			}
		})
	}
}

func TestScoreAnnualEarnings(t *testing.T) {
	// 25% CAGR over 3 years: oldest 100 grows to 100 * 1.25^3.
	full := 100 * math.Pow(1.25, 3)

	tests := []struct {
		name       string
		netIncomes []float64
		want       float64
	}{
		{"25% CAGR gives full score", []float64{full, 120, 100}, 15.0},
		{"shrinking earnings score zero", []float64{50, 80, 100}, 0},
		{"negative oldest endpoint scores zero", []float64{100, 50, -10}, 0},
		{"negative recent endpoint scores zero", []float64{-100, 50, 10}, 0},
		{"two years is insufficient", []float64{100, 80}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreAnnualEarnings(tt.netIncomes)
			if math.Abs(got.Score-tt.want) > 1e-9 {
				t.Errorf("score = %.4f, want %.4f (%s)", got.Score, tt.want, got.Detail)
			}
		})
	}

	// Half CAGR gives a proportional score.
	got := scoreAnnualEarnings([]float64{100 * math.Pow(1.125, 3), 110, 100})
	if math.Abs(got.Score-7.5) > 1e-9 {
		t.Errorf("12.5%% CAGR: score = %.4f, want 7.5", got.Score)
	}
}

func TestScoreNewHighs(t *testing.T) {
	tests := []struct {
		name          string
		current, high float64
		want          float64
	}{
		{"within 5%", 97, 100, 15.0},
		{"within 10%", 92, 100, 10.0},
		{"within 15%", 87, 100, 5.0},
		{"far from high", 70, 100, 0},
		{"missing high", 50, 0, 0},
		{"missing price", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreNewHighs(tt.current, tt.high)
			if got.Score != tt.want {
				t.Errorf("score = %.1f, want %.1f", got.Score, tt.want)
			}
		})
	}
}

// supplyDemandBars builds 60 flat-price bars, then overrides the last 5 with
// the given closing trend and volume.
func supplyDemandBars(lastVolume float64, rising bool) []model.OHLCV {
	bars := marketdata.GenerateBars(100, 0, 60, 1e6)
	n := len(bars)
	for i := n - 5; i < n; i++ {
		bars[i].Volume = lastVolume
		if rising {
			bars[i].Close = 100 + float64(i-(n-6))
		} else {
			bars[i].Close = 100 - float64(i-(n-6))
		}
	}
	return bars
}

func TestScoreSupplyDemand(t *testing.T) {
	// With 45 bars at 1e6 and 5 at v, ratio = v / ((45e6 + 5v) / 50).
	tests := []struct {
		name       string
		lastVolume float64
		rising     bool
		want       float64
	}{
		{"strong surge with rising price", 3e6, true, 15.0},
		{"mild surge with rising price", 1.5e6, true, 10.0},
		{"slight surge with rising price", 1.1e6, true, 7.0},
		{"rising price on average volume", 0.8e6, true, 5.0},
		{"falling price scores zero", 3e6, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreSupplyDemand(supplyDemandBars(tt.lastVolume, tt.rising))
			if got.Score != tt.want {
				t.Errorf("score = %.1f, want %.1f (%s)", got.Score, tt.want, got.Detail)
			}
		})
	}

	short := marketdata.GenerateBars(100, 0, 30, 1e6)
	if got := scoreSupplyDemand(short); got.Score != 0 {
		t.Errorf("expected zero for short history, got %.1f", got.Score)
	}
}

func TestLeaderScore_Boundaries(t *testing.T) {
	tests := []struct {
		rs   float64
		want float64
	}{
		{1.5, 15.0},
		{1.3, 15.0},
		{1.15, 7.5},
		{1.0, 0},
		{0.95, 6.25},
		{0.85, 3.75},
		{0.7, 0},
		{0.5, 0},
	}
	for _, tt := range tests {
		if got := leaderScore(tt.rs); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("leaderScore(%.2f) = %.4f, want %.4f", tt.rs, got, tt.want)
		}
	}
}

func TestLeaderScore_ParityAndLaggardBand(t *testing.T) {
	const eps = 1e-9
	if at := leaderScore(1.0); at != 0 {
		t.Errorf("leaderScore(1.0) = %v, want exactly 0", at)
	}
	if above := leaderScore(1.0 + eps); math.Abs(above) > 1e-6 {
		t.Errorf("leaderScore just above parity = %v, want ~0", above)
	}
	// Just under parity sits at the top of the laggard band.
	if below := leaderScore(1.0 - eps); math.Abs(below-7.5) > 1e-6 {
		t.Errorf("leaderScore just below parity = %v, want ~7.5", below)
	}
	// The band is linear: midpoint earns half of its 7.5 ceiling.
	if mid := leaderScore(0.85); math.Abs(mid-3.75) > 1e-9 {
		t.Errorf("leaderScore(0.85) = %v, want 3.75", mid)
	}
}

func TestScoreLeader(t *testing.T) {
	// Stock +30%, index flat: RS = 1.3 exactly, full points.
	stock := marketdata.GenerateBars(100, 30.0/251, 252, 1e6)
	index := marketdata.GenerateBars(5000, 0, 252, 1e9)
	got := scoreLeader(stock, index)
	if math.Abs(got.Score-15.0) > 1e-6 {
		t.Errorf("RS 1.3: score = %.4f, want 15 (%s)", got.Score, got.Detail)
	}

	// Stock matching the index exactly scores zero.
	even := scoreLeader(index, index)
	if even.Score != 0 {
		t.Errorf("RS 1.0: score = %.4f, want 0", even.Score)
	}

	short := marketdata.GenerateBars(100, 1, 20, 1e6)
	if got := scoreLeader(short, index); got.Score != 0 {
		t.Errorf("expected zero for short history, got %.1f", got.Score)
	}
}

func TestScoreInstitutional(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		known bool
		want  float64
	}{
		{"sweet spot", 40, true, 10.0},
		{"lower edge of sweet spot", 20, true, 10.0},
		{"upper edge of sweet spot", 60, true, 10.0},
		{"light ownership", 15, true, 7.0},
		{"heavy ownership", 70, true, 7.0},
		{"minimal ownership", 5, true, 3.0},
		{"saturated ownership", 90, true, 3.0},
		{"unknown gets benefit of the doubt", 0, false, InstitutionalDefaultScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreInstitutional(tt.pct, tt.known)
			if got.Score != tt.want {
				t.Errorf("score = %.1f, want %.1f", got.Score, tt.want)
			}
		})
	}
}

// marketBars builds a 300-bar index series in three constant segments, which
// makes the 50-day and 200-day moving averages easy to position around the
// final close.
func marketBars(early, middle, last float64) []model.OHLCV {
	bars := marketdata.GenerateBars(early, 0, 300, 1e9)
	for i := 240; i < 299; i++ {
		bars[i].Close = middle
	}
	bars[299].Close = last
	return bars
}

func TestScoreMarket(t *testing.T) {
	tests := []struct {
		name                 string
		early, middle, last  float64
		want                 float64
		detail               string
	}{
		{"above both MAs", 100, 100, 200, 15.0, "bullish market"},
		{"above 200-day only", 100, 200, 150, 10.0, "mixed market"},
		{"above 50-day only", 200, 100, 150, 5.0, "cautious market"},
		{"below both MAs", 200, 200, 90, 0, "bearish market"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreMarket(marketBars(tt.early, tt.middle, tt.last))
			if got.Score != tt.want {
				t.Errorf("score = %.1f, want %.1f (%s)", got.Score, tt.want, got.Detail)
			}
			if got.Detail != tt.detail {
				t.Errorf("detail = %q, want %q", got.Detail, tt.detail)
			}
		})
	}

	short := marketdata.GenerateBars(5000, 1, 150, 1e9)
	got := scoreMarket(short)
	if got.Score != MarketDefaultScore {
		t.Errorf("short history: score = %.1f, want default %.1f", got.Score, MarketDefaultScore)
	}
}
