package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"pulse/internal/model"
)

// TradingDaysPerYear annualizes daily return volatility.
const TradingDaysPerYear = 252

// Volatility returns the annualized volatility of the series as a
// percentage: sample standard deviation of daily returns times √252 × 100,
// rounded to 2 decimal places. Returns whose base close is zero or
// non-finite are dropped; fewer than two usable returns yields NoMetric.
func Volatility(closes []float64) model.Metric {
	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 || math.IsNaN(prev) || math.IsInf(prev, 0) {
			continue
		}
		r := (closes[i] - prev) / prev
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	if len(returns) < 2 {
		return model.NoMetric
	}
	sd := stat.StdDev(returns, nil)
	return model.MetricOf(sd * math.Sqrt(TradingDaysPerYear) * 100)
}
