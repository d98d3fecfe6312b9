// Package store persists tickers, transactions, alerts, notes and settings.
// The analytics engine only reads and writes through the Store interface,
// so any backend can stand in — the SQLite implementation for the server,
// the in-memory one for tests.
package store

import (
	"errors"

	"pulse/internal/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrExists is returned when adding a ticker that is already tracked.
	ErrExists = errors.New("ticker already exists")
)

// Store is the persistence contract.
type Store interface {
	ListTickers() ([]model.Ticker, error)
	AddTicker(t model.Ticker) error
	// DeleteTicker removes the ticker and cascade-deletes its
	// transactions, alert and note.
	DeleteTicker(symbol string) error

	ListTransactions(symbol string) ([]model.Transaction, error)
	AddTransaction(tx model.Transaction) error
	DeleteTransaction(id string) error

	// GetAlert returns nil without error when no alert is configured.
	GetAlert(symbol string) (*model.Alert, error)
	PutAlert(a model.Alert) error
	DeleteAlert(symbol string) error

	// GetNote returns nil without error when no note exists.
	GetNote(symbol string) (*model.Note, error)
	PutNote(n model.Note) error

	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	Close() error
}
