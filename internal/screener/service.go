// Package screener assembles the per-symbol analytics reports consumed by
// the frontend.
package screener

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pulse/internal/calculator"
	"pulse/internal/collector"
	"pulse/internal/model"
	"pulse/internal/position"
	"pulse/internal/store"
	"pulse/internal/valuation"
)

// MinHistory is the minimum number of price observations a symbol needs to
// appear in the report set. Shorter histories are skipped, not errored.
const MinHistory = 50

// Service builds reports from the injected store and fetcher. It holds no
// persistent state of its own; every build is a pure transform over the
// store's records and freshly fetched market data.
type Service struct {
	store   store.Store
	fetcher collector.Fetcher
	log     zerolog.Logger

	mu       sync.RWMutex
	snapshot []model.Report
}

// New creates a screener service.
func New(st store.Store, f collector.Fetcher, log zerolog.Logger) *Service {
	return &Service{
		store:   st,
		fetcher: f,
		log:     log.With().Str("component", "screener").Logger(),
	}
}

// Build assembles one report per eligible tracked symbol. Symbols whose
// fetch fails or whose history is too short are logged and skipped; a
// failure on one symbol never affects the others.
func (s *Service) Build(ctx context.Context) ([]model.Report, error) {
	tickers, err := s.store.ListTickers()
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	reports := make([]model.Report, 0, len(tickers))
	for _, t := range tickers {
		report, err := s.buildReport(ctx, t)
		if err != nil {
			s.log.Warn().Str("symbol", t.Symbol).Err(err).Msg("skipping symbol")
			continue
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (s *Service) buildReport(ctx context.Context, t model.Ticker) (*model.Report, error) {
	series, err := s.fetcher.FetchHistory(ctx, t.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if series.Len() < MinHistory {
		return nil, fmt.Errorf("insufficient history: %d bars", series.Len())
	}

	// Metadata failure is non-fatal: the report degrades to defaults.
	meta, err := s.fetcher.FetchMeta(ctx, t.Symbol)
	if err != nil {
		s.log.Debug().Str("symbol", t.Symbol).Err(err).Msg("metadata unavailable")
		meta = &model.SymbolMeta{Symbol: t.Symbol}
	}

	closes := series.Closes()
	volumes := series.Volumes()
	price := series.LastClose()

	yesterday := price
	if len(closes) > 1 {
		yesterday = closes[len(closes)-2]
	}

	ma250 := calculator.SMA(closes, calculator.Window250)

	txs, err := s.store.ListTransactions(t.Symbol)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	pos := position.Compute(txs)

	alert, err := s.store.GetAlert(t.Symbol)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	val := valuation.Evaluate(price, pos, alert)

	notes := ""
	if note, err := s.store.GetNote(t.Symbol); err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	} else if note != nil {
		notes = note.Content
	}

	return &model.Report{
		Symbol:    t.Symbol,
		Category:  t.Category,
		Price:     model.Round(price, 2),
		Yesterday: model.Round(yesterday, 2),
		Perf: model.Perf{
			D1: calculator.PctChange(closes, calculator.Days1d),
			M1: calculator.PctChange(closes, calculator.Days1m),
			M3: calculator.PctChange(closes, calculator.Days3m),
			M6: calculator.PctChange(closes, calculator.Days6m),
			Y1: calculator.PctChange(closes, calculator.Days1y),
			Y3: calculator.PctChange3y(closes),
		},
		MA: model.MovingAverages{
			MA50:  calculator.SMA(closes, calculator.Window50),
			MA100: calculator.SMA(closes, calculator.Window100),
			MA250: ma250,
		},
		Stats: model.Stats{
			PE:            metaMetric(meta.TrailingPE),
			RSI:           calculator.RSI(closes, calculator.RSIPeriod),
			EPS:           metaMetric(meta.TrailingEPS),
			Beta:          metaMetric(meta.Beta),
			Sector:        sectorOrDefault(meta.Sector),
			Earnings:      FormatEarningsDate(meta.EarningsDate, time.Now()),
			AvgVolume:     calculator.AvgVolume(volumes),
			Volatility:    calculator.Volatility(closes),
			MarketCap:     FormatMarketCap(meta.MarketCap),
			High52w:       metaMetric(meta.FiftyTwoWeekHigh),
			Low52w:        metaMetric(meta.FiftyTwoWeekLow),
			DividendYield: formatDividendYield(meta.DividendYield),
		},
		Sentiment: Sentiment(price, ma250),
		Position: model.PositionView{
			Quantity:     pos.Quantity,
			AvgPrice:     pos.AvgPrice,
			CurrentValue: val.CurrentValue,
			PnL:          val.PnL,
			PnLPct:       val.PnLPct,
		},
		Alerts:         val.Alerts,
		AlertTriggered: val.Triggered,
		Notes:          notes,
	}, nil
}

// Categories returns the deduplicated, sorted category list prefixed with
// the "All" pseudo-category.
func (s *Service) Categories() ([]string, error) {
	tickers, err := s.store.ListTickers()
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	seen := map[string]bool{}
	var categories []string
	for _, t := range tickers {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}
	sort.Strings(categories)
	return append([]string{"All"}, categories...), nil
}

// Refresh rebuilds the cached snapshot and returns the number of reports.
// The snapshot backs the scheduler's alert scan.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	reports, err := s.Build(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.snapshot = reports
	s.mu.Unlock()
	return len(reports), nil
}

// Snapshot returns the reports from the most recent Refresh.
func (s *Service) Snapshot() []model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// metaMetric converts a possibly-absent metadata field: zero means absent
// and renders as the sentinel.
func metaMetric(v float64) model.Metric {
	if v == 0 {
		return model.NoMetric
	}
	return model.MetricOf(v)
}

func sectorOrDefault(sector string) string {
	if sector == "" {
		return model.NoData
	}
	return sector
}

func formatDividendYield(y float64) float64 {
	if y <= 0 {
		return 0
	}
	return model.Round(y*100, 2)
}
