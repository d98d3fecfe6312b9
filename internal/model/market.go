package model

import "time"

// OHLCV represents a single daily bar. Only close and volume feed the
// analytics; open/high/low are kept for completeness of the wire format.
type OHLCV struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds a symbol's daily history, ascending by date.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes returns the volume column.
func (s *PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		volumes[i] = b.Volume
	}
	return volumes
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// SymbolMeta is the metadata bundle from the market data provider.
// Any field may be absent; absent numerics are zero and the earnings
// date is nil.
type SymbolMeta struct {
	Symbol           string
	Sector           string
	TrailingPE       float64
	TrailingEPS      float64
	Beta             float64
	MarketCap        float64
	DividendYield    float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
	EarningsDate     *time.Time
}
