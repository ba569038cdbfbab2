package scoring

import (
	"fmt"

	"CanslimScout/internal/calculator"
	"CanslimScout/internal/model"
)

// Documented defaults for factors whose input data may be unavailable.
// Flagged for product review: both values are inherited behavior, not
// derived from the scoring model.
const (
	// InstitutionalDefaultScore is awarded when ownership data is unknown
	// (benefit of the doubt).
	InstitutionalDefaultScore = 5.0
	// MarketDefaultScore is used when the benchmark index has fewer than 200
	// data points.
	MarketDefaultScore = 7.5
)

// Quarterly growth at or above this percentage earns full C/A points.
const fullScoreGrowthPct = 25.0

// FactorResult is one sub-score with its human-readable rationale.
type FactorResult struct {
	Score  float64
	Detail string
}

// scoreCurrentEarnings implements C: quarter-over-quarter net-income growth,
// 15 points at >= 25% growth, scaled down proportionally. A loss turning
// toward profit counts as a fixed 25% turnaround.
func scoreCurrentEarnings(netIncomes []float64) FactorResult {
	if len(netIncomes) < 2 {
		return FactorResult{0, "insufficient quarterly data"}
	}
	current, previous := netIncomes[0], netIncomes[1]

	var growth float64
	switch {
	case previous > 0:
		growth = (current - previous) / previous * 100
	case previous < 0 && current > previous:
		growth = fullScoreGrowthPct // turnaround scenario
	default:
		growth = 0
	}

	return FactorResult{growthScore(growth, model.MaxCurrentEarnings), fmt.Sprintf("QoQ: %+.1f%%", growth)}
}

// scoreAnnualEarnings implements A: 3-year CAGR of annual net income,
// 15 points at >= 25% CAGR, scaled down proportionally.
func scoreAnnualEarnings(netIncomes []float64) FactorResult {
	if len(netIncomes) < 3 {
		return FactorResult{0, "insufficient annual data"}
	}
	cagr, err := calculator.CAGR(netIncomes[0], netIncomes[2], 3)
	if err != nil {
		return FactorResult{0, "non-positive earnings endpoints"}
	}
	return FactorResult{growthScore(cagr, model.MaxAnnualEarnings), fmt.Sprintf("3yr CAGR: %.1f%%", cagr)}
}

func growthScore(growthPct, max float64) float64 {
	switch {
	case growthPct >= fullScoreGrowthPct:
		return max
	case growthPct > 0:
		return growthPct / fullScoreGrowthPct * max
	default:
		return 0
	}
}

// scoreNewHighs implements N: proximity to the 52-week high.
func scoreNewHighs(currentPrice, high52 float64) FactorResult {
	if currentPrice <= 0 || high52 <= 0 {
		return FactorResult{0, "price data unavailable"}
	}
	pctFromHigh := (high52 - currentPrice) / high52 * 100

	var score float64
	switch {
	case pctFromHigh <= 5:
		score = 15.0
	case pctFromHigh <= 10:
		score = 10.0
	case pctFromHigh <= 15:
		score = 5.0
	default:
		score = 0
	}
	return FactorResult{score, fmt.Sprintf("within %.1f%% of 52wk high", pctFromHigh)}
}

// scoreSupplyDemand implements S: recent volume surge relative to the 50-day
// average, qualified by price direction over the last 5 sessions.
func scoreSupplyDemand(bars []model.OHLCV) FactorResult {
	if len(bars) < 50 {
		return FactorResult{0, "insufficient historical data"}
	}
	n := len(bars)

	recentVol, err1 := calculator.Mean(volumes(bars[n-5:]))
	avgVol, err2 := calculator.Mean(volumes(bars[n-50:]))
	if err1 != nil || err2 != nil || avgVol == 0 {
		return FactorResult{0, "no volume data"}
	}
	volumeRatio := recentVol / avgVol

	priceChange, err := calculator.PercentChange(bars[n-5].Close, bars[n-1].Close)
	if err != nil {
		return FactorResult{0, "no recent close prices"}
	}
	rising := priceChange > 0

	switch {
	case volumeRatio > 1.5 && rising:
		return FactorResult{15.0, fmt.Sprintf("vol %.1fx avg, rising", volumeRatio)}
	case volumeRatio > 1.2 && rising:
		return FactorResult{10.0, fmt.Sprintf("vol %.1fx avg, rising", volumeRatio)}
	case volumeRatio > 1.0 && rising:
		return FactorResult{7.0, fmt.Sprintf("vol %.1fx avg, rising", volumeRatio)}
	case rising:
		return FactorResult{5.0, "price rising, avg volume"}
	default:
		return FactorResult{0, "weak accumulation pattern"}
	}
}

func volumes(bars []model.OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}

// scoreLeader implements L: relative strength of the stock's return versus
// the benchmark index over up to 12 months.
func scoreLeader(stock, index []model.OHLCV) FactorResult {
	if len(stock) < 50 || len(index) < 50 {
		return FactorResult{0, "insufficient data for RS calculation"}
	}

	stockReturn := stock[len(stock)-1].Close/stock[0].Close - 1
	indexReturn := index[len(index)-1].Close/index[0].Close - 1
	if 1+indexReturn == 0 {
		return FactorResult{0, "degenerate index return"}
	}
	rs := (1 + stockReturn) / (1 + indexReturn)

	return FactorResult{leaderScore(rs), fmt.Sprintf("RS: %.2f", rs)}
}

// leaderScore maps relative strength to points: full points above RS 1.3,
// a zero anchored exactly at market parity, a half-weight band for moderate
// laggards down to RS 0.7, and zero below.
func leaderScore(rs float64) float64 {
	switch {
	case rs > 1.3:
		return model.MaxLeader
	case rs >= 1.0:
		return (rs - 1.0) / 0.3 * model.MaxLeader
	case rs > 0.7:
		return (rs - 0.7) / 0.3 * (model.MaxLeader / 2)
	default:
		return 0
	}
}

// scoreInstitutional implements I: sweet spot of 20-60% institutional
// ownership; extremes in either direction score low.
func scoreInstitutional(pct float64, known bool) FactorResult {
	if !known {
		return FactorResult{InstitutionalDefaultScore, "ownership data unavailable"}
	}

	var score float64
	switch {
	case pct >= 20 && pct <= 60:
		score = 10.0
	case pct >= 10 && pct < 20, pct > 60 && pct <= 80:
		score = 7.0
	default: // < 10% or > 80%
		score = 3.0
	}
	return FactorResult{score, fmt.Sprintf("%.0f%% inst. owned", pct)}
}

// scoreMarket implements M: benchmark index close versus its 50-day and
// 200-day moving averages.
func scoreMarket(index []model.OHLCV) FactorResult {
	if len(index) < 200 {
		return FactorResult{MarketDefaultScore, "market data limited"}
	}

	current := index[len(index)-1].Close
	ma50, err50 := calculator.CalculateMA50(index)
	ma200, err200 := calculator.CalculateMA200(index)
	if err50 != nil || err200 != nil {
		return FactorResult{MarketDefaultScore, "market data limited"}
	}

	above50 := current > ma50
	above200 := current > ma200

	switch {
	case above200 && above50:
		return FactorResult{15.0, "bullish market"}
	case above200:
		return FactorResult{10.0, "mixed market"}
	case above50:
		return FactorResult{5.0, "cautious market"}
	default:
		return FactorResult{0, "bearish market"}
	}
}
