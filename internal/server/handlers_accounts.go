package server

import (
	"context"
	"net/http"

	"github.com/boursagent/boursagent/internal/interfaces"
	"github.com/boursagent/boursagent/internal/models"
)

// credentialsRequest carries the caller's bank credentials for one request.
// Credentials live in memory for the request lifecycle only and are never
// logged or persisted.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *credentialsRequest) validate(w http.ResponseWriter) bool {
	if c.Username == "" || c.Password == "" {
		WriteError(w, http.StatusBadRequest, "username and password are required")
		return false
	}
	return true
}

// openSession builds a fresh bank client and takes it through the
// init/login handshake for this request.
func (s *Server) openSession(ctx context.Context, username, password string) (interfaces.BankClient, error) {
	client := s.app.NewBankClient()
	if err := client.InitSession(ctx); err != nil {
		return nil, err
	}
	if err := client.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return client, nil
}

// handleAccounts handles POST /api/accounts, discovering every account.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	s.handleAccountsFiltered(w, r, models.AccountKindAny)
}

// handleAccountsByKind handles POST /api/accounts/{kind}.
func (s *Server) handleAccountsByKind(w http.ResponseWriter, r *http.Request, kindName string) {
	kind, err := models.ParseAccountKind(kindName)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.handleAccountsFiltered(w, r, kind)
}

func (s *Server) handleAccountsFiltered(w http.ResponseWriter, r *http.Request, kind models.AccountKind) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	ctx := r.Context()
	client, err := s.openSession(ctx, req.Username, req.Password)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	accounts, err := client.GetAccounts(ctx, kind)
	if err != nil {
		s.WriteClientError(w, r, err)
		return
	}

	if accounts == nil {
		accounts = []models.Account{}
	}
	WriteJSON(w, http.StatusOK, accounts)
}
