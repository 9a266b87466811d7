package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestBearerGateOpenWithoutSecret(t *testing.T) {
	s := newTestServer(&stubBankClient{ticks: sampleTicks()})

	rec := doJSON(t, s, http.MethodGet, "/api/quotes/1rTCW8", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerGateRejectsMissingToken(t *testing.T) {
	s := newTestServerWithSecret(&stubBankClient{ticks: sampleTicks()}, "gate-secret")

	rec := doJSON(t, s, http.MethodGet, "/api/quotes/1rTCW8", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerGateAcceptsValidToken(t *testing.T) {
	s := newTestServerWithSecret(&stubBankClient{ticks: sampleTicks()}, "gate-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/1rTCW8", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "gate-secret"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerGateRejectsWrongSecret(t *testing.T) {
	s := newTestServerWithSecret(&stubBankClient{ticks: sampleTicks()}, "gate-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/1rTCW8", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerGateLeavesProbesOpen(t *testing.T) {
	s := newTestServerWithSecret(&stubBankClient{}, "gate-secret")

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationIDEchoed(t *testing.T) {
	s := newTestServer(&stubBankClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Correlation-ID"))
}

func TestCorrelationIDGenerated(t *testing.T) {
	s := newTestServer(&stubBankClient{})

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	assert.Len(t, rec.Header().Get("X-Correlation-ID"), 8)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubBankClient{})

	rec := doJSON(t, s, http.MethodOptions, "/api/accounts", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	s := newTestServer(&stubBankClient{})
	handler := recoveryMiddleware(s.logger)(panicking)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
