package projection

import (
	"context"

	"CanslimScout/internal/calculator"
	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
)

// Six months of trading days, the projection horizon.
const horizonDays = 126

// Clamp bounds for the individual components and the final growth figure.
const (
	momentumFloor, momentumCeil = -50.0, 100.0
	earningsFloor, earningsCeil = -40.0, 80.0
	growthFloor, growthCeil     = -50.0, 150.0
)

// earningsDampening moderates the earnings projection: price is assumed to
// follow earnings with imperfect correlation.
const earningsDampening = 0.8

// Projector estimates six-month growth from momentum, earnings trend, the
// CANSLIM score and sector momentum. Sector outperformance is memoized per
// run; create a fresh Projector per pipeline run.
type Projector struct {
	store   *marketdata.Store
	sectors *sectorMomentum
}

// NewProjector creates a Projector. sectorETFs maps sector names to
// benchmark ETF symbols; tickers in unmapped sectors receive a zero sector
// component.
func NewProjector(store *marketdata.Store, sectorETFs map[string]string) *Projector {
	return &Projector{
		store:   store,
		sectors: newSectorMomentum(store, sectorETFs),
	}
}

// component is one weighted projection input. weightUsed reports whether its
// weight participates in the aggregate; genuine reports whether real
// (non-default) data backed the value, which is what confidence counts.
type component struct {
	value      float64
	weight     float64
	weightUsed bool
	genuine    bool
}

func absentComponent(weight float64) component {
	return component{weight: weight}
}

// momentumGrowth extrapolates the recent linear price trend six months
// forward. Requires at least 60 daily closes.
func momentumGrowth(bars []model.OHLCV) (float64, bool) {
	if len(bars) < 60 {
		return 0, false
	}
	closes := calculator.Closes(bars)
	slope, intercept, err := calculator.LinearRegression(closes)
	if err != nil {
		return 0, false
	}

	current := closes[len(closes)-1]
	if current <= 0 {
		return 0, false
	}
	projected := intercept + slope*float64(len(closes)+horizonDays)
	growth := (projected - current) / current * 100
	return clamp(growth, momentumFloor, momentumCeil), true
}

// earningsGrowth compounds the average quarter-over-quarter net-income
// growth rate two quarters forward, dampened. Requires at least 4 quarters.
func earningsGrowth(netIncomes []float64) (float64, bool) {
	if len(netIncomes) < 4 {
		return 0, false
	}

	var rates []float64
	for i := 0; i < len(netIncomes)-1; i++ {
		prev := netIncomes[i+1]
		if prev == 0 {
			continue // skip terms with a zero denominator
		}
		rates = append(rates, (netIncomes[i]-prev)/abs(prev))
	}
	avg, err := calculator.Mean(rates)
	if err != nil {
		return 0, false
	}

	projected := ((1+avg)*(1+avg) - 1) * 100
	projected *= earningsDampening
	return clamp(projected, earningsFloor, earningsCeil), true
}

// canslimFactor converts the total CANSLIM score into a growth factor.
// Scores above 70 contribute positively, below 50 negatively.
func canslimFactor(total float64) float64 {
	norm := total / model.MaxTotalScore
	switch {
	case norm >= 0.7:
		return (norm - 0.7) * 100
	case norm >= 0.5:
		return (norm - 0.5) * 50
	default:
		return (norm - 0.5) * 30
	}
}

// Project computes the six-month growth projection for a ticker with its
// CANSLIM score. Returns absent only when the ticker has no usable current
// price.
func (p *Projector) Project(ctx context.Context, ticker string, score *model.FactorScore) (*model.GrowthProjection, bool) {
	quote, ok := p.store.Snapshot(ctx, ticker)
	if !ok || !quote.HasPrice() {
		return nil, false
	}

	momentum := absentComponent(model.WeightMomentum)
	if bars, ok := p.store.PriceHistory(ctx, ticker, marketdata.SixMonthDays); ok {
		if g, ok := momentumGrowth(bars); ok {
			momentum = component{g, model.WeightMomentum, true, true}
		}
	}

	earnings := absentComponent(model.WeightEarnings)
	if quarterly, ok := p.store.QuarterlyFinancials(ctx, ticker); ok {
		if g, ok := earningsGrowth(model.NetIncomes(quarterly)); ok {
			earnings = component{g, model.WeightEarnings, true, true}
		}
	}

	// Available whenever a score exists, which is always at this point.
	canslim := component{canslimFactor(score.Total), model.WeightCanslim, true, true}

	sector := p.sectors.component(ctx, quote.Sector)

	growth := aggregate(momentum, earnings, canslim, sector)
	growth = clamp(growth, growthFloor, growthCeil)

	return &model.GrowthProjection{
		Ticker:             ticker,
		CurrentPrice:       quote.CurrentPrice,
		ProjectedPrice:     quote.CurrentPrice * (1 + growth/100),
		ProjectedGrowthPct: growth,
		MomentumComponent:  momentum.value,
		EarningsComponent:  earnings.value,
		CanslimComponent:   canslim.value,
		SectorComponent:    sector.value,
		Confidence:         confidence(momentum, earnings, canslim, sector),
	}, true
}

// aggregate sums the weighted contributions of the used components and
// renormalizes when absent components leave the used weight below 1.0.
func aggregate(components ...component) float64 {
	var sum, usedWeight float64
	for _, c := range components {
		if !c.weightUsed {
			continue
		}
		sum += c.value * c.weight
		usedWeight += c.weight
	}
	if usedWeight == 0 {
		return 0
	}
	if usedWeight < 1.0 {
		sum /= usedWeight
	}
	return sum
}

// confidence counts components backed by genuinely available data:
// 4 → High, 3 → Medium, fewer → Low.
func confidence(components ...component) model.Confidence {
	available := 0
	for _, c := range components {
		if c.genuine {
			available++
		}
	}
	switch {
	case available >= 4:
		return model.ConfidenceHigh
	case available >= 3:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
