package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/collector"
	"pulse/internal/model"
	"pulse/internal/store"
)

// flatSeries builds n bars all closing at price.
func flatSeries(symbol string, price float64, n int) *model.PriceSeries {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{
			Date:   time.Now().AddDate(0, 0, -(n - i)),
			Close:  price,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars}
}

func newFixture(t *testing.T) (*store.Memory, *collector.MockFetcher, *Service) {
	t.Helper()
	st := store.NewMemory()
	fetcher := collector.NewMockFetcher()
	return st, fetcher, New(st, fetcher, zerolog.Nop())
}

func TestBuildFullReport(t *testing.T) {
	st, fetcher, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "ACME", Category: "Tech"}))
	fetcher.Series["ACME"] = flatSeries("ACME", 150, 300)
	fetcher.Meta["ACME"] = &model.SymbolMeta{
		Symbol:        "ACME",
		Sector:        "Technology",
		TrailingPE:    25.5,
		MarketCap:     2.5e12,
		DividendYield: 0.0052,
	}

	for _, tx := range []model.Transaction{
		{ID: "1", Symbol: "ACME", Type: model.TradeBuy, Quantity: 10, Price: 100},
		{ID: "2", Symbol: "ACME", Type: model.TradeBuy, Quantity: 10, Price: 150},
		{ID: "3", Symbol: "ACME", Type: model.TradeSell, Quantity: 5, Price: 200},
	} {
		require.NoError(t, st.AddTransaction(tx))
	}
	require.NoError(t, st.PutAlert(model.Alert{Symbol: "ACME", High: 150}))
	require.NoError(t, st.PutNote(model.Note{Symbol: "ACME", Content: "core holding"}))

	reports, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "ACME", r.Symbol)
	assert.Equal(t, "Tech", r.Category)
	assert.Equal(t, 150.0, r.Price)
	assert.Equal(t, 150.0, r.Yesterday)

	// Flat series: zero returns everywhere, defined moving averages.
	assert.Equal(t, model.Perf{}, r.Perf)
	assert.Equal(t, 150.0, r.MA.MA250.Value)
	assert.True(t, r.MA.MA50.Valid)

	// Flat series has no losses: RSI degrades to the sentinel.
	assert.False(t, r.Stats.RSI.Valid)
	assert.Equal(t, 0.0, r.Stats.Volatility.Value)
	assert.Equal(t, 1000.0, r.Stats.AvgVolume.Value)

	// Metadata merge.
	assert.Equal(t, "Technology", r.Stats.Sector)
	assert.Equal(t, 25.5, r.Stats.PE.Value)
	assert.Equal(t, "$2.50T", r.Stats.MarketCap)
	assert.Equal(t, 0.52, r.Stats.DividendYield)
	assert.False(t, r.Stats.EPS.Valid)

	// Position and valuation.
	assert.Equal(t, 15.0, r.Position.Quantity)
	assert.Equal(t, 100.0, r.Position.AvgPrice)
	assert.Equal(t, 2250.0, r.Position.CurrentValue)
	assert.Equal(t, 750.0, r.Position.PnL)
	assert.Equal(t, 50.0, r.Position.PnLPct)

	// Price at the high bound triggers.
	assert.Equal(t, map[string]float64{"high": 150}, r.Alerts)
	assert.True(t, r.AlertTriggered)

	assert.Equal(t, "core holding", r.Notes)

	// Price equal to the moving average is not above it.
	assert.Equal(t, "Bearish", r.Sentiment)
}

func TestBuildSkipsShortHistory(t *testing.T) {
	st, fetcher, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "THIN", Category: "Spec"}))
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "FULL", Category: "Spec"}))
	fetcher.Series["THIN"] = flatSeries("THIN", 10, 30) // below the 50-bar floor
	fetcher.Series["FULL"] = flatSeries("FULL", 10, 60)

	reports, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "FULL", reports[0].Symbol)
}

func TestBuildIsolatesFetchFailures(t *testing.T) {
	st, fetcher, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "BAD", Category: "Spec"}))
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "GOOD", Category: "Spec"}))
	fetcher.Err["BAD"] = errors.New("provider unavailable")
	fetcher.Series["GOOD"] = flatSeries("GOOD", 20, 100)

	reports, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "GOOD", reports[0].Symbol)
}

func TestBuildMetaFailureDegrades(t *testing.T) {
	st, fetcher, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "NAKED", Category: "Spec"}))
	fetcher.Series["NAKED"] = flatSeries("NAKED", 20, 100)
	// no Meta entry: mock returns an empty bundle

	reports, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, model.NoData, r.Stats.Sector)
	assert.Equal(t, model.NoData, r.Stats.MarketCap)
	assert.False(t, r.Stats.PE.Valid)
	assert.Equal(t, 0.0, r.Stats.DividendYield)
	assert.Empty(t, r.Stats.Earnings)

	// 100 bars leave the 250-day MA undefined, which is never bullish.
	assert.False(t, r.MA.MA250.Valid)
	assert.Equal(t, "Bearish", r.Sentiment)
}

func TestBuildEmptyWatchlist(t *testing.T) {
	_, _, svc := newFixture(t)
	reports, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestCategories(t *testing.T) {
	st, _, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "A", Category: "Tech"}))
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "B", Category: "ETF"}))
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "C", Category: "Tech"}))

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "ETF", "Tech"}, categories)
}

func TestCategoriesEmpty(t *testing.T) {
	_, _, svc := newFixture(t)
	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"All"}, categories)
}

func TestRefreshAndSnapshot(t *testing.T) {
	st, fetcher, svc := newFixture(t)

	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "ACME", Category: "Tech"}))
	fetcher.Series["ACME"] = flatSeries("ACME", 150, 300)

	assert.Empty(t, svc.Snapshot())

	n, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, svc.Snapshot(), 1)
	assert.Equal(t, "ACME", svc.Snapshot()[0].Symbol)
}
