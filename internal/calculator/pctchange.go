package calculator

import (
	"math"

	"pulse/internal/model"
)

// Standard trading-day horizons for percentage returns.
const (
	Days1d = 1
	Days1m = 21
	Days3m = 63
	Days6m = 126
	Days1y = 252
	Days3y = 756
)

// PctChange returns the percentage change of the last close versus the close
// `days` bars earlier, rounded to 2 decimal places. A series shorter than
// days+1 returns 0 — insufficient history is a defined zero, not an error.
// A zero or non-finite start value also returns 0.
func PctChange(closes []float64, days int) float64 {
	if days <= 0 || len(closes) < days+1 {
		return 0
	}
	start := closes[len(closes)-1-days]
	end := closes[len(closes)-1]
	if start == 0 || math.IsNaN(start) || math.IsInf(start, 0) {
		return 0
	}
	return model.Round((end-start)/start*100, 2)
}

// PctChange3y returns the 3-year return, falling back to comparing against
// the oldest available close when the history is shorter than 3 years.
func PctChange3y(closes []float64) float64 {
	if len(closes) >= Days3y+1 {
		return PctChange(closes, Days3y)
	}
	return PctChange(closes, len(closes)-1)
}
