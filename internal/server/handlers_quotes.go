package server

import (
	"net/http"
	"strconv"

	"github.com/boursagent/boursagent/internal/models"
	"github.com/boursagent/boursagent/internal/services/quote"
)

const (
	defaultTickLength   = 30
	defaultTickInterval = 0
)

// quoteRequest is the POST /api/quotes body. Length and Interval fall back
// to the defaults when omitted or zero.
type quoteRequest struct {
	Symbol   string `json:"symbol"`
	Length   int    `json:"length,omitempty"`
	Interval int    `json:"interval,omitempty"`
}

// fetchTicks retrieves the series for a symbol through a fresh client.
// Quote data is public; no login is performed.
func (s *Server) fetchTicks(r *http.Request, symbol string, length, interval int) (*models.Ticks, error) {
	if length <= 0 {
		length = defaultTickLength
	}
	if interval < 0 {
		interval = defaultTickInterval
	}
	client := s.app.NewBankClient()
	return client.GetTicks(r.Context(), symbol, length, interval)
}

// tickParams reads length/interval query parameters for the GET endpoints.
func tickParams(r *http.Request) (length, interval int) {
	length = defaultTickLength
	interval = defaultTickInterval
	if v := r.URL.Query().Get("length"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			length = n
		}
	}
	if v := r.URL.Query().Get("interval"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			interval = n
		}
	}
	return length, interval
}

// handleQuoteLookup handles POST /api/quotes: most recent sample for a symbol.
func (s *Server) handleQuoteLookup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req quoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	ticks, err := s.fetchTicks(r, req.Symbol, req.Length, req.Interval)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	last := ticks.Last()
	if last == nil {
		WriteError(w, http.StatusNotFound, "no quote data for symbol "+req.Symbol)
		return
	}
	WriteJSON(w, http.StatusOK, last)
}

// handleQuoteSeries handles GET /api/quotes/{symbol}: the full series.
func (s *Server) handleQuoteSeries(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	length, interval := tickParams(r)
	ticks, err := s.fetchTicks(r, symbol, length, interval)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ticks)
}

// handleQuoteScalar handles GET /api/quotes/{symbol}/{highest|lowest|average|volume}.
// A series with no usable value yields 0.0, the documented fallback for the
// scalar endpoints.
func (s *Server) handleQuoteScalar(w http.ResponseWriter, r *http.Request, symbol, metric string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	length, interval := tickParams(r)
	ticks, err := s.fetchTicks(r, symbol, length, interval)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	var value float64
	var ok bool
	switch metric {
	case "highest":
		value, ok = ticks.Highest()
	case "lowest":
		value, ok = ticks.Lowest()
	case "average":
		value, ok = ticks.Average()
	case "volume":
		value, ok = ticks.Volume()
	}
	if !ok {
		value = 0.0
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"value":  value,
	})
}

// handleQuoteLast handles GET /api/quotes/{symbol}/last.
func (s *Server) handleQuoteLast(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	length, interval := tickParams(r)
	ticks, err := s.fetchTicks(r, symbol, length, interval)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	last := ticks.Last()
	if last == nil {
		WriteError(w, http.StatusNotFound, "no quote data for symbol "+symbol)
		return
	}
	WriteJSON(w, http.StatusOK, last)
}

// handleQuoteChart handles GET /api/quotes/{symbol}/chart: PNG line chart.
func (s *Server) handleQuoteChart(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	length, interval := tickParams(r)
	ticks, err := s.fetchTicks(r, symbol, length, interval)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	png, err := quote.RenderTickChart(ticks)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
