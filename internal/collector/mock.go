package collector

import (
	"context"
	"time"

	"pulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]*model.PriceSeries
	Meta   map[string]*model.SymbolMeta
	Err    map[string]error // per-symbol error injection
}

// NewMockFetcher creates an empty mock.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Series: map[string]*model.PriceSeries{},
		Meta:   map[string]*model.SymbolMeta{},
		Err:    map[string]error{},
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string) (*model.PriceSeries, error) {
	if err, ok := m.Err[symbol]; ok {
		return nil, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return GenerateSeries(symbol, 100, 252*2), nil
}

func (m *MockFetcher) FetchMeta(_ context.Context, symbol string) (*model.SymbolMeta, error) {
	if meta, ok := m.Meta[symbol]; ok {
		return meta, nil
	}
	return &model.SymbolMeta{Symbol: symbol}, nil
}

// GenerateSeries builds a deterministic drifting series for mocks.
func GenerateSeries(symbol string, basePrice float64, count int) *model.PriceSeries {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
}
