package server

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulse/internal/model"
	"pulse/internal/position"
	"pulse/internal/store"
)

var csvHeader = []string{"Symbol", "Category", "Quantity", "Avg_Price", "Alert_High", "Alert_Low", "Notes"}

// handleExport writes the whole watchlist as CSV. Positions are derived
// from each symbol's ledger at export time.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	tickers, err := s.store.ListTickers()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	if err := writer.Write(csvHeader); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	for _, t := range tickers {
		txs, err := s.store.ListTransactions(t.Symbol)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err)
			return
		}
		pos := position.Compute(txs)

		alert, err := s.store.GetAlert(t.Symbol)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err)
			return
		}
		high, low := "", ""
		if alert != nil {
			if alert.High != 0 {
				high = strconv.FormatFloat(alert.High, 'f', -1, 64)
			}
			if alert.Low != 0 {
				low = strconv.FormatFloat(alert.Low, 'f', -1, 64)
			}
		}

		notes := ""
		if note, err := s.store.GetNote(t.Symbol); err != nil {
			s.respondError(w, http.StatusInternalServerError, err)
			return
		} else if note != nil {
			notes = note.Content
		}

		record := []string{
			t.Symbol,
			t.Category,
			strconv.FormatFloat(pos.Quantity, 'f', -1, 64),
			strconv.FormatFloat(pos.AvgPrice, 'f', -1, 64),
			high,
			low,
			notes,
		}
		if err := writer.Write(record); err != nil {
			s.respondError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"csv": sb.String()})
}

// handleImport reads a CSV upload. Rows with a quantity and average price
// become a single opening BUY, but only when the symbol's ledger is empty,
// so re-importing an export leaves positions unchanged. Bad rows are
// skipped; the response carries the number of newly added tickers.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("missing file upload"))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("empty csv"))
		return
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Symbol"]; !ok {
		s.respondError(w, http.StatusBadRequest, errors.New("csv missing Symbol column"))
		return
	}

	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}

		symbol := strings.ToUpper(field(record, "Symbol"))
		if symbol == "" {
			continue
		}
		category := field(record, "Category")
		if category == "" {
			category = "Short Term"
		}

		switch err := s.store.AddTicker(model.Ticker{Symbol: symbol, Category: category}); {
		case err == nil:
			imported++
		case errors.Is(err, store.ErrExists):
			// keep existing ticker, still merge the row's records
		default:
			s.log.Warn().Str("symbol", symbol).Err(err).Msg("import: add ticker failed")
			continue
		}

		qty, qerr := strconv.ParseFloat(field(record, "Quantity"), 64)
		price, perr := strconv.ParseFloat(field(record, "Avg_Price"), 64)
		if qerr == nil && perr == nil && qty > 0 && price > 0 {
			if err := s.seedPosition(symbol, qty, price); err != nil {
				s.log.Warn().Str("symbol", symbol).Err(err).Msg("import: seed position failed")
			}
		}

		high, herr := strconv.ParseFloat(field(record, "Alert_High"), 64)
		low, lerr := strconv.ParseFloat(field(record, "Alert_Low"), 64)
		if herr == nil || lerr == nil {
			alert := model.Alert{Symbol: symbol}
			if herr == nil {
				alert.High = high
			}
			if lerr == nil {
				alert.Low = low
			}
			if err := s.store.PutAlert(alert); err != nil {
				s.log.Warn().Str("symbol", symbol).Err(err).Msg("import: put alert failed")
			}
		}

		if notes := field(record, "Notes"); notes != "" {
			if err := s.store.PutNote(model.Note{Symbol: symbol, Content: notes}); err != nil {
				s.log.Warn().Str("symbol", symbol).Err(err).Msg("import: put note failed")
			}
		}
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"status": "imported", "count": imported})
}

// seedPosition records an imported position as a single opening BUY. A
// symbol that already has transactions keeps its ledger untouched; the
// row's quantity and price are an export-time snapshot of that ledger.
func (s *Server) seedPosition(symbol string, qty, price float64) error {
	existing, err := s.store.ListTransactions(symbol)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.store.AddTransaction(model.Transaction{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Type:     model.TradeBuy,
		Quantity: qty,
		Price:    price,
		Date:     time.Now().UTC(),
		Notes:    "imported position",
	})
}
