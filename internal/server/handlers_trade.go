package server

import (
	"net/http"

	"github.com/boursagent/boursagent/internal/clients/bourso"
	"github.com/boursagent/boursagent/internal/models"
)

// orderRequest is the POST /api/trade/orders body.
type orderRequest struct {
	credentialsRequest
	AccountID string   `json:"account_id"`
	Side      string   `json:"side"`
	Symbol    string   `json:"symbol"`
	Quantity  int      `json:"quantity"`
	Limit     *float64 `json:"limit,omitempty"`
}

// positionsRequest is the POST /api/trade/positions body.
type positionsRequest struct {
	credentialsRequest
	AccountID string `json:"account_id"`
}

// handleOrderCreate handles POST /api/trade/orders. The target account must
// come out of a fresh Trading-filtered discovery on this very session; the
// order is submitted at most once.
func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req orderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}
	if req.AccountID == "" {
		WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	side, err := models.ParseOrderSide(req.Side)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity <= 0 {
		WriteError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	ctx := r.Context()
	client, err := s.openSession(ctx, req.Username, req.Password)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	accounts, err := client.GetAccounts(ctx, models.AccountKindTrading)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}
	account, err := bourso.FindAccount(accounts, req.AccountID)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	if err := client.Order(ctx, side, account, req.Symbol, req.Quantity, req.Limit); err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{})
}

// handlePositions handles POST /api/trade/positions: the flattened
// positions of one trading account across every summary segment.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req positionsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}
	if req.AccountID == "" {
		WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	ctx := r.Context()
	client, err := s.openSession(ctx, req.Username, req.Password)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	accounts, err := client.GetAccounts(ctx, models.AccountKindTrading)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}
	account, err := bourso.FindAccount(accounts, req.AccountID)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	summaries, err := client.GetTradingSummary(ctx, account)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	positions := models.FlattenPositions(summaries)
	if positions == nil {
		positions = []models.Position{}
	}
	WriteJSON(w, http.StatusOK, positions)
}
