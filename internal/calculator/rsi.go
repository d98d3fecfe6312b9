package calculator

import "pulse/internal/model"

// RSIPeriod is the standard relative strength index lookback.
const RSIPeriod = 14

// RSI computes the relative strength index from the rolling mean of gains
// and losses over the trailing `period` price deltas:
//
//	RS  = avg gain / avg loss
//	RSI = 100 - 100/(1+RS)
//
// A series shorter than period+1, or a window with no losses (division by
// zero), yields NoMetric.
func RSI(closes []float64, period int) model.Metric {
	if period <= 0 || len(closes) < period+1 {
		return model.NoMetric
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return model.NoMetric
	}
	rs := avgGain / avgLoss
	return model.MetricOf(100 - 100/(1+rs))
}
