package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/boursagent/boursagent/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Accounts
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)

	// Quotes
	mux.HandleFunc("/api/quotes/", s.routeQuotes)
	mux.HandleFunc("/api/quotes", s.handleQuoteLookup)

	// Trading
	mux.HandleFunc("/api/trade/orders", s.handleOrderCreate)
	mux.HandleFunc("/api/trade/positions", s.handlePositions)
}

// routeAccounts dispatches /api/accounts/{kind} to the accounts handler.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	kind := PathParam(r, "/api/accounts/", "")
	if kind == "" {
		s.handleAccounts(w, r)
		return
	}
	s.handleAccountsByKind(w, r, kind)
}

// routeQuotes dispatches /api/quotes/{symbol}/* to the appropriate handler.
func (s *Server) routeQuotes(w http.ResponseWriter, r *http.Request) {
	symbol := PathParam(r, "/api/quotes/", "")
	if symbol == "" {
		s.handleQuoteLookup(w, r)
		return
	}

	subpath := strings.TrimPrefix(r.URL.Path, "/api/quotes/"+symbol)
	subpath = strings.TrimPrefix(subpath, "/")

	switch subpath {
	case "":
		s.handleQuoteSeries(w, r, symbol)
	case "highest", "lowest", "average", "volume":
		s.handleQuoteScalar(w, r, symbol, subpath)
	case "last":
		s.handleQuoteLast(w, r, symbol)
	case "chart":
		s.handleQuoteChart(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     s.app.Config.Environment,
		"remote_base_url": s.app.Config.Clients.Bourso.BaseURL,
		"logging_level":   s.app.Config.Logging.Level,
		"auth_required":   s.app.Config.Auth.JWTSecret != "",
		"uptime":          uptime.String(),
		"started_at":      s.app.StartupTime,
	})
}
