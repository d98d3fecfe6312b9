package calculator

import "pulse/internal/model"

// VolumeWindow is the trailing window for average volume.
const VolumeWindow = 20

// AvgVolume returns the mean of the trailing 20 volume observations, or the
// full-series mean when fewer than 20 rows exist. An empty series yields
// NoMetric.
func AvgVolume(volumes []float64) model.Metric {
	if len(volumes) == 0 {
		return model.NoMetric
	}
	start := len(volumes) - VolumeWindow
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range volumes[start:] {
		sum += v
	}
	return model.MetricRounded(sum/float64(len(volumes)-start), 0)
}
