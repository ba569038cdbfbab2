package calculator

import (
	"errors"
	"math"

	"CanslimScout/internal/model"
)

// Calculate52WeekHigh scans the most recent 252 trading days and returns the
// highest traded price. Used as a fallback when the quote snapshot does not
// carry a 52-week high.
func Calculate52WeekHigh(dailyBars []model.OHLCV) (float64, error) {
	if len(dailyBars) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	n := len(dailyBars)
	start := n - 252
	if start < 0 {
		start = 0
	}
	high := math.Inf(-1)
	for i := start; i < n; i++ {
		if dailyBars[i].High > high {
			high = dailyBars[i].High
		}
	}
	return high, nil
}
