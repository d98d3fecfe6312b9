package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pulse/internal/model"
	"pulse/internal/position"
	"pulse/internal/store"
)

func (s *Server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondStatus(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"status": msg})
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, map[string]string{"status": "error", "message": err.Error()})
}

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	reports, err := s.screener.Build(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, reports)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	categories, err := s.screener.Categories()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, categories)
}

func (s *Server) handleAddTicker(w http.ResponseWriter, r *http.Request) {
	var req model.Ticker
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		s.respondError(w, http.StatusBadRequest, errors.New("empty symbol"))
		return
	}
	if req.Category == "" {
		req.Category = "Short Term"
	}

	switch err := s.store.AddTicker(req); {
	case errors.Is(err, store.ErrExists):
		s.respondStatus(w, http.StatusOK, "exists")
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err)
	default:
		s.respondStatus(w, http.StatusOK, "added")
	}
}

func (s *Server) handleDeleteTicker(w http.ResponseWriter, r *http.Request) {
	switch err := s.store.DeleteTicker(symbolParam(r)); {
	case errors.Is(err, store.ErrNotFound):
		s.respondStatus(w, http.StatusNotFound, "not_found")
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err)
	default:
		s.respondStatus(w, http.StatusOK, "deleted")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(symbolParam(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	s.respond(w, http.StatusOK, txs)
}

type transactionRequest struct {
	Type     model.TradeType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Date     *time.Time      `json:"date"`
	Notes    string          `json:"notes"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Type = model.TradeType(strings.ToUpper(string(req.Type)))
	if !req.Type.Valid() {
		s.respondError(w, http.StatusBadRequest, errors.New("type must be BUY or SELL"))
		return
	}
	if req.Quantity <= 0 || req.Price <= 0 {
		s.respondError(w, http.StatusBadRequest, errors.New("quantity and price must be positive"))
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	tx := model.Transaction{
		ID:       uuid.NewString(),
		Symbol:   symbolParam(r),
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.Price,
		Date:     date,
		Notes:    req.Notes,
	}
	if err := s.store.AddTransaction(tx); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	switch err := s.store.DeleteTransaction(chi.URLParam(r, "id")); {
	case errors.Is(err, store.ErrNotFound):
		s.respondStatus(w, http.StatusNotFound, "not_found")
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err)
	default:
		s.respondStatus(w, http.StatusOK, "deleted")
	}
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(symbolParam(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, position.Compute(txs))
}

func (s *Server) handlePutAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		High float64 `json:"high"`
		Low  float64 `json:"low"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	alert := model.Alert{Symbol: symbolParam(r), High: req.High, Low: req.Low}
	if err := s.store.PutAlert(alert); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondStatus(w, http.StatusOK, "saved")
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAlert(symbolParam(r)); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondStatus(w, http.StatusOK, "deleted")
}

func (s *Server) handlePutNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.PutNote(model.Note{Symbol: symbolParam(r), Content: req.Notes}); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondStatus(w, http.StatusOK, "saved")
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	theme, err := s.store.GetSetting("theme")
	if errors.Is(err, store.ErrNotFound) {
		theme = "dark"
	} else if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetSetting("theme", req.Theme); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
