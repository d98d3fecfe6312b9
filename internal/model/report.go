package model

// Perf holds percentage returns over the standard horizons.
type Perf struct {
	D1 float64 `json:"1d"`
	M1 float64 `json:"1m"`
	M3 float64 `json:"3m"`
	M6 float64 `json:"6m"`
	Y1 float64 `json:"1y"`
	Y3 float64 `json:"3y"`
}

// MovingAverages holds the trailing simple moving averages.
type MovingAverages struct {
	MA50  Metric `json:"50"`
	MA100 Metric `json:"100"`
	MA250 Metric `json:"250"`
}

// Stats bundles indicator and fundamental fields for display.
type Stats struct {
	PE            Metric  `json:"pe"`
	RSI           Metric  `json:"rsi"`
	EPS           Metric  `json:"eps"`
	Beta          Metric  `json:"beta"`
	Sector        string  `json:"sector"`
	Earnings      string  `json:"earnings,omitempty"`
	AvgVolume     Metric  `json:"avg_volume"`
	Volatility    Metric  `json:"volatility"`
	MarketCap     string  `json:"market_cap"`
	High52w       Metric  `json:"52w_high"`
	Low52w        Metric  `json:"52w_low"`
	DividendYield float64 `json:"dividend_yield"`
}

// PositionView is the valued holding embedded in a report.
type PositionView struct {
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentValue float64 `json:"current_value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
}

// Report is the full per-symbol analytics bundle. It is assembled per
// request and never persisted.
type Report struct {
	Symbol         string             `json:"symbol"`
	Category       string             `json:"category"`
	Price          float64            `json:"price"`
	Yesterday      float64            `json:"yesterday"`
	Perf           Perf               `json:"perf"`
	MA             MovingAverages     `json:"ma"`
	Stats          Stats              `json:"stats"`
	Sentiment      string             `json:"sentiment"`
	Position       PositionView       `json:"position"`
	Alerts         map[string]float64 `json:"alerts"`
	AlertTriggered bool               `json:"alert_triggered"`
	Notes          string             `json:"notes"`
}
