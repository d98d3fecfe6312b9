package calculator

import (
	"github.com/markcheno/go-talib"

	"pulse/internal/model"
)

// Standard moving average windows.
const (
	Window50  = 50
	Window100 = 100
	Window250 = 250
)

// SMA returns the trailing simple moving average of closes over the given
// window. Fewer points than the window yields NoMetric rather than a
// numeric artifact.
func SMA(closes []float64, window int) model.Metric {
	if window <= 0 || len(closes) < window {
		return model.NoMetric
	}
	sma := talib.Sma(closes, window)
	return model.MetricOf(sma[len(sma)-1])
}
