package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"pulse/internal/model"
)

// SQLite implements Store on a local SQLite database.
type SQLite struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLite opens (or creates) the database and runs migrations.
func NewSQLite(dbPath string, log zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode keeps reads cheap while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLite{db: db, log: log.With().Str("component", "store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tickers (
			symbol   TEXT PRIMARY KEY,
			category TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id       TEXT PRIMARY KEY,
			symbol   TEXT NOT NULL,
			type     TEXT NOT NULL,
			quantity REAL NOT NULL,
			price    REAL NOT NULL,
			date     INTEGER NOT NULL,
			notes    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_symbol ON transactions(symbol)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			symbol TEXT PRIMARY KEY,
			high   REAL NOT NULL DEFAULT 0,
			low    REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			symbol  TEXT PRIMARY KEY,
			content TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLite) ListTickers() ([]model.Ticker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT symbol, category FROM tickers ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []model.Ticker
	for rows.Next() {
		var t model.Ticker
		if err := rows.Scan(&t.Symbol, &t.Category); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

func (s *SQLite) AddTicker(t model.Ticker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM tickers WHERE symbol = ?", t.Symbol).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check ticker: %w", err)
	}
	if exists > 0 {
		return ErrExists
	}
	if _, err := s.db.Exec("INSERT INTO tickers (symbol, category) VALUES (?, ?)", t.Symbol, t.Category); err != nil {
		return fmt.Errorf("insert ticker: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteTicker(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM tickers WHERE symbol = ?", symbol)
	if err != nil {
		return fmt.Errorf("delete ticker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	// Cascade delete dependent records.
	for _, stmt := range []string{
		"DELETE FROM transactions WHERE symbol = ?",
		"DELETE FROM alerts WHERE symbol = ?",
		"DELETE FROM notes WHERE symbol = ?",
	} {
		if _, err := s.db.Exec(stmt, symbol); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}
	return nil
}

func (s *SQLite) ListTransactions(symbol string) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, symbol, type, quantity, price, date, notes FROM transactions WHERE symbol = ? ORDER BY date",
		symbol)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var ts int64
		if err := rows.Scan(&tx.ID, &tx.Symbol, &tx.Type, &tx.Quantity, &tx.Price, &ts, &tx.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date = time.Unix(ts, 0).UTC()
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *SQLite) AddTransaction(tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO transactions (id, symbol, type, quantity, price, date, notes) VALUES (?,?,?,?,?,?,?)",
		tx.ID, tx.Symbol, string(tx.Type), tx.Quantity, tx.Price, tx.Date.Unix(), tx.Notes)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) GetAlert(symbol string) (*model.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a model.Alert
	err := s.db.QueryRow("SELECT symbol, high, low FROM alerts WHERE symbol = ?", symbol).
		Scan(&a.Symbol, &a.High, &a.Low)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query alert: %w", err)
	}
	return &a, nil
}

func (s *SQLite) PutAlert(a model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO alerts (symbol, high, low) VALUES (?,?,?)
		 ON CONFLICT(symbol) DO UPDATE SET high=excluded.high, low=excluded.low`,
		a.Symbol, a.High, a.Low)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteAlert(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM alerts WHERE symbol = ?", symbol); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

func (s *SQLite) GetNote(symbol string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n model.Note
	err := s.db.QueryRow("SELECT symbol, content FROM notes WHERE symbol = ?", symbol).
		Scan(&n.Symbol, &n.Content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return &n, nil
}

func (s *SQLite) PutNote(n model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO notes (symbol, content) VALUES (?,?)
		 ON CONFLICT(symbol) DO UPDATE SET content=excluded.content`,
		n.Symbol, n.Content)
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}

func (s *SQLite) GetSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query setting: %w", err)
	}
	return value, nil
}

func (s *SQLite) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
