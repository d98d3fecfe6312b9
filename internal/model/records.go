package model

import "time"

// Ticker is a tracked symbol with its user-assigned category.
type Ticker struct {
	Symbol   string `json:"symbol"`
	Category string `json:"category"`
}

// TradeType is the direction of a transaction.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Valid reports whether t is a known trade type.
func (t TradeType) Valid() bool { return t == TradeBuy || t == TradeSell }

// Transaction is one immutable entry in a symbol's ledger. Transactions are
// created, individually deleted, or cascade-deleted with their ticker —
// never mutated.
type Transaction struct {
	ID       string    `json:"id"`
	Symbol   string    `json:"symbol"`
	Type     TradeType `json:"type"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes"`
}

// Position is the current holding derived from a ledger. It is never
// persisted; it is recomputed from the full ledger on every request.
type Position struct {
	Quantity float64 `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// Alert holds optional price thresholds for a symbol, one record per symbol.
// A zero bound means that side is disabled.
type Alert struct {
	Symbol string  `json:"symbol"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
}

// Note is free-form user text attached to a symbol, one record per symbol.
type Note struct {
	Symbol  string `json:"symbol"`
	Content string `json:"content"`
}
