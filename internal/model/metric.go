package model

import (
	"encoding/json"
	"math"
)

// NoData is the display sentinel rendered for metrics that could not be computed.
const NoData = "—"

// Metric is an optional numeric value. An invalid metric serializes as the
// NoData sentinel instead of a number, so "no data" never leaks into the
// output as 0 or NaN.
type Metric struct {
	Value float64
	Valid bool
}

// NoMetric is the absent value.
var NoMetric = Metric{}

// MetricOf returns a valid metric rounded to 2 decimal places.
// NaN and infinities collapse to NoMetric.
func MetricOf(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoMetric
	}
	return Metric{Value: Round(v, 2), Valid: true}
}

// MetricRounded returns a valid metric rounded to the given number of
// decimal places.
func MetricRounded(v float64, places int) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoMetric
	}
	return Metric{Value: Round(v, places), Valid: true}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(NoData)
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*m = NoMetric
		return nil
	}
	*m = Metric{Value: v, Valid: true}
	return nil
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
