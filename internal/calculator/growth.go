package calculator

import (
	"errors"
	"math"
)

// CAGR returns the compound annual growth rate in percent between the oldest
// and most recent value over the given number of years. Both endpoints must
// be positive.
func CAGR(recent, oldest float64, years int) (float64, error) {
	if years <= 0 {
		return 0, errors.New("years must be positive")
	}
	if recent <= 0 || oldest <= 0 {
		return 0, errors.New("CAGR requires positive endpoints")
	}
	return (math.Pow(recent/oldest, 1/float64(years)) - 1) * 100, nil
}

// PercentChange returns the percentage change from a previous value to a
// current one.
func PercentChange(previous, current float64) (float64, error) {
	if previous == 0 {
		return 0, errors.New("previous value is zero")
	}
	return (current - previous) / previous * 100, nil
}

// Mean returns the arithmetic mean of the values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}
