package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"pulse/internal/model"
)

const (
	chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5y"
	quoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with an optional proxy.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchHistory fetches up to five years of daily bars for symbol.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	u := fmt.Sprintf(chartURL, url.PathEscape(symbol))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchMeta fetches the metadata bundle via the quote API. Absent fields
// stay at their zero values.
func (f *YahooFetcher) FetchMeta(ctx context.Context, symbol string) (*model.SymbolMeta, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,sector,trailingPE,epsTrailingTwelveMonths,beta,marketCap,"+
		"trailingAnnualDividendYield,fiftyTwoWeekHigh,fiftyTwoWeekLow,earningsTimestamp")

	body, err := f.get(ctx, quoteURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result struct {
		QuoteResponse struct {
			Result []map[string]interface{} `json:"result"`
			Error  interface{}              `json:"error"`
		} `json:"quoteResponse"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("yahoo decode quote: %w", err)
	}
	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo quote error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no quote returned for %s", symbol)
	}

	info := result.QuoteResponse.Result[0]
	meta := &model.SymbolMeta{
		Symbol:           symbol,
		Sector:           getString(info, "sector"),
		TrailingPE:       getFloat(info, "trailingPE"),
		TrailingEPS:      getFloat(info, "epsTrailingTwelveMonths"),
		Beta:             getFloat(info, "beta"),
		MarketCap:        getFloat(info, "marketCap"),
		DividendYield:    getFloat(info, "trailingAnnualDividendYield"),
		FiftyTwoWeekHigh: getFloat(info, "fiftyTwoWeekHigh"),
		FiftyTwoWeekLow:  getFloat(info, "fiftyTwoWeekLow"),
	}
	if ts := getFloat(info, "earningsTimestamp"); ts > 0 {
		t := time.Unix(int64(ts), 0)
		meta.EarningsDate = &t
	}
	return meta, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		return toFloat(v)
	}
	return 0
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
