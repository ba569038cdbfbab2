package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Quote is the snapshot view of a single ticker.
type Quote struct {
	Symbol        string
	ShortName     string
	CurrentPrice  float64
	High52Week    float64
	AverageVolume float64
	// Institutional ownership as a percentage (0-100). InstitutionalKnown is
	// false when the provider did not report the field; a zero value then
	// means "unknown", not "0% owned".
	InstitutionalPct   float64
	InstitutionalKnown bool
	Sector             string
}

// HasPrice reports whether the quote carries a usable current price.
func (q *Quote) HasPrice() bool {
	return q != nil && q.CurrentPrice > 0
}

// FinancialPeriod is one income-statement period. Series are ordered
// most-recent-first, matching the provider.
type FinancialPeriod struct {
	End       time.Time
	NetIncome float64
}

// NetIncomes extracts the net-income values from a period series,
// preserving most-recent-first order.
func NetIncomes(periods []FinancialPeriod) []float64 {
	vals := make([]float64, len(periods))
	for i, p := range periods {
		vals[i] = p.NetIncome
	}
	return vals
}
