package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/collector"
	"pulse/internal/model"
	"pulse/internal/position"
	"pulse/internal/screener"
	"pulse/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory, *collector.MockFetcher) {
	t.Helper()
	st := store.NewMemory()
	fetcher := collector.NewMockFetcher()
	svc := screener.New(st, fetcher, zerolog.Nop())
	srv := New(Config{Port: 0, Log: zerolog.Nop(), Store: st, Screener: svc})
	return srv, st, fetcher
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAddTicker(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tickers", model.Ticker{Symbol: " aapl ", Category: "Tech"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"added"}`, rec.Body.String())

	// Same symbol again, normalized to upper case.
	rec = doJSON(t, srv, http.MethodPost, "/api/tickers", model.Ticker{Symbol: "AAPL", Category: "Other"})
	assert.JSONEq(t, `{"status":"exists"}`, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/tickers", model.Ticker{Symbol: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTicker(t *testing.T) {
	srv, st, _ := newTestServer(t)
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "AAPL", Category: "Tech"}))

	rec := doJSON(t, srv, http.MethodDelete, "/api/tickers/aapl", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/tickers/AAPL", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionsEndpoints(t *testing.T) {
	srv, st, _ := newTestServer(t)
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "AAPL", Category: "Tech"}))

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions/AAPL", map[string]interface{}{
		"type": "buy", "quantity": 10.0, "price": 150.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.TradeBuy, created.Type)

	// Validation failures.
	rec = doJSON(t, srv, http.MethodPost, "/api/transactions/AAPL", map[string]interface{}{
		"type": "HOLD", "quantity": 10.0, "price": 150.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, srv, http.MethodPost, "/api/transactions/AAPL", map[string]interface{}{
		"type": "SELL", "quantity": -1.0, "price": 150.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions/AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/AAPL/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/AAPL/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPositionEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)
	for i, typ := range []model.TradeType{model.TradeBuy, model.TradeBuy, model.TradeSell} {
		qty := []float64{10, 10, 5}[i]
		price := []float64{100, 150, 200}[i]
		require.NoError(t, st.AddTransaction(model.Transaction{
			ID: fmt.Sprintf("tx%d", i), Symbol: "AAPL", Type: typ,
			Quantity: qty, Price: price, Date: time.Now().UTC(),
		}))
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/position/AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pos model.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.Equal(t, model.Position{Quantity: 15, AvgPrice: 100}, pos)
}

func TestAlertAndNoteEndpoints(t *testing.T) {
	srv, st, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/alerts/aapl", map[string]float64{"high": 200, "low": 120})
	assert.Equal(t, http.StatusOK, rec.Code)
	alert, err := st.GetAlert("AAPL")
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 200.0, alert.High)

	rec = doJSON(t, srv, http.MethodDelete, "/api/alerts/AAPL", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/notes/AAPL", map[string]string{"notes": "watch guidance"})
	assert.Equal(t, http.StatusOK, rec.Code)
	note, err := st.GetNote("AAPL")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "watch guidance", note.Content)
}

func TestThemeEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/theme", nil)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String()) // default

	rec = doJSON(t, srv, http.MethodPost, "/api/theme", map[string]string{"theme": "light"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/theme", nil)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())
}

func TestCategoriesEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "AAPL", Category: "Tech"}))
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "VT", Category: "ETF"}))

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	assert.JSONEq(t, `["All","ETF","Tech"]`, rec.Body.String())
}

func TestExportCSV(t *testing.T) {
	srv, st, _ := newTestServer(t)
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "AAPL", Category: "Tech"}))
	require.NoError(t, st.AddTransaction(model.Transaction{
		ID: "tx1", Symbol: "AAPL", Type: model.TradeBuy,
		Quantity: 10, Price: 150, Date: time.Now().UTC(),
	}))
	require.NoError(t, st.PutAlert(model.Alert{Symbol: "AAPL", High: 200}))

	rec := doJSON(t, srv, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["csv"], "Symbol,Category,Quantity,Avg_Price,Alert_High,Alert_Low,Notes")
	assert.Contains(t, resp["csv"], "AAPL,Tech,10,150,200,,")
}

func TestImportCSV(t *testing.T) {
	srv, st, _ := newTestServer(t)

	csvBody := strings.Join([]string{
		"Symbol,Category,Quantity,Avg_Price,Alert_High,Alert_Low,Notes",
		"aapl,Tech,10,150,200,,long term",
		"VT,ETF,,,,,",
		",missing symbol row,,,,,",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "watchlist.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "imported", resp.Status)
	assert.Equal(t, 2, resp.Count)

	// Imported position lands in the ledger.
	txs, err := st.ListTransactions("AAPL")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 10.0, txs[0].Quantity)

	alert, err := st.GetAlert("AAPL")
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 200.0, alert.High)

	note, err := st.GetNote("AAPL")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "long term", note.Content)
}

// Re-importing the same CSV must not stack another opening BUY on top of
// an existing ledger: an export/import round trip leaves positions as-is.
func TestImportCSVIdempotent(t *testing.T) {
	srv, st, _ := newTestServer(t)

	csvBody := strings.Join([]string{
		"Symbol,Category,Quantity,Avg_Price,Alert_High,Alert_Low,Notes",
		"AAPL,Tech,10,150,,,",
	}, "\n")

	post := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "watchlist.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csvBody))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, post().Code)
	require.Equal(t, http.StatusOK, post().Code)

	txs, err := st.ListTransactions("AAPL")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.Position{Quantity: 10, AvgPrice: 150}, position.Compute(txs))
}

func TestScreenerEndpoint(t *testing.T) {
	srv, st, fetcher := newTestServer(t)
	require.NoError(t, st.AddTicker(model.Ticker{Symbol: "ACME", Category: "Tech"}))
	series := collector.GenerateSeries("ACME", 100, 300)
	fetcher.Series["ACME"] = series

	rec := doJSON(t, srv, http.MethodGet, "/api/screener", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "ACME", reports[0]["symbol"])
}
