package server

import (
	"errors"
	"net/http"

	"github.com/boursagent/boursagent/internal/clients/bourso"
)

// statusForError translates a bank client failure into an HTTP status and
// message. Classification relies only on the client's typed taxonomy, never
// on free-text message inspection.
func statusForError(err error) (int, string) {
	var transport *bourso.TransportError
	var malformed *bourso.MalformedPayloadError
	var slot *bourso.SlotNotFoundError
	var symbol *bourso.SymbolNotFoundError
	var account *bourso.AccountNotFoundError
	var rejected *bourso.OrderRejectedError

	switch {
	case errors.Is(err, bourso.ErrMfaRequired):
		return http.StatusUnauthorized, "MFA required"
	case errors.Is(err, bourso.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials or expired session"
	case errors.As(err, &slot):
		return http.StatusBadRequest, slot.Error()
	case errors.As(err, &account):
		return http.StatusNotFound, account.Error()
	case errors.As(err, &symbol):
		return http.StatusNotFound, symbol.Error()
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity, rejected.Error()
	case errors.As(err, &transport):
		return http.StatusBadGateway, "Upstream request failed"
	case errors.As(err, &malformed):
		return http.StatusInternalServerError, malformed.Error()
	}

	return http.StatusInternalServerError, "An internal server error occurred"
}

// WriteClientError writes the translated error response and logs the
// underlying failure for 5xx-class outcomes.
func (s *Server) WriteClientError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Bank client operation failed")
	} else {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Bank client operation rejected")
	}
	WriteError(w, status, message)
}
