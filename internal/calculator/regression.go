package calculator

import "errors"

// LinearRegression fits y = intercept + slope*x by ordinary least squares,
// with x = 0, 1, ..., len(ys)-1.
func LinearRegression(ys []float64) (slope, intercept float64, err error) {
	n := len(ys)
	if n < 2 {
		return 0, 0, errors.New("need at least 2 points for regression")
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, errors.New("degenerate regression input")
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept, nil
}
