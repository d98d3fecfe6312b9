package store

import (
	"sort"
	"sync"

	"pulse/internal/model"
)

// Memory is an in-memory Store used in tests and when no database path is
// configured.
type Memory struct {
	mu      sync.RWMutex
	tickers map[string]model.Ticker
	txs     map[string]model.Transaction // keyed by id
	alerts  map[string]model.Alert
	notes   map[string]model.Note
	setting map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tickers: map[string]model.Ticker{},
		txs:     map[string]model.Transaction{},
		alerts:  map[string]model.Alert{},
		notes:   map[string]model.Note{},
		setting: map[string]string{},
	}
}

func (m *Memory) ListTickers() ([]model.Ticker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickers := make([]model.Ticker, 0, len(m.tickers))
	for _, t := range m.tickers {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool { return tickers[i].Symbol < tickers[j].Symbol })
	return tickers, nil
}

func (m *Memory) AddTicker(t model.Ticker) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickers[t.Symbol]; ok {
		return ErrExists
	}
	m.tickers[t.Symbol] = t
	return nil
}

func (m *Memory) DeleteTicker(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickers[symbol]; !ok {
		return ErrNotFound
	}
	delete(m.tickers, symbol)
	for id, tx := range m.txs {
		if tx.Symbol == symbol {
			delete(m.txs, id)
		}
	}
	delete(m.alerts, symbol)
	delete(m.notes, symbol)
	return nil
}

func (m *Memory) ListTransactions(symbol string) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var txs []model.Transaction
	for _, tx := range m.txs {
		if tx.Symbol == symbol {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, nil
}

func (m *Memory) AddTransaction(tx model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs[tx.ID] = tx
	return nil
}

func (m *Memory) DeleteTransaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.txs[id]; !ok {
		return ErrNotFound
	}
	delete(m.txs, id)
	return nil
}

func (m *Memory) GetAlert(symbol string) (*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, ok := m.alerts[symbol]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *Memory) PutAlert(a model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[a.Symbol] = a
	return nil
}

func (m *Memory) DeleteAlert(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alerts, symbol)
	return nil
}

func (m *Memory) GetNote(symbol string) (*model.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n, ok := m.notes[symbol]; ok {
		return &n, nil
	}
	return nil, nil
}

func (m *Memory) PutNote(n model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.Symbol] = n
	return nil
}

func (m *Memory) GetSetting(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.setting[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *Memory) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setting[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
