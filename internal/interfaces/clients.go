// Package interfaces defines service contracts for boursagent
package interfaces

import (
	"context"

	"github.com/boursagent/boursagent/internal/models"
)

// BankClient drives one authenticated Boursobank web session. A BankClient
// carries one set of session cookies and must not be shared across
// concurrently in-flight operations for different end users; the façade
// constructs a fresh client per incoming request via a ClientFactory.
type BankClient interface {
	// InitSession performs the pre-login handshake and seeds the cookie jar
	InitSession(ctx context.Context) error

	// Login authenticates with the virtual keypad flow
	Login(ctx context.Context, username, password string) error

	// GetAccounts discovers accounts, optionally filtered by kind
	GetAccounts(ctx context.Context, kind models.AccountKind) ([]models.Account, error)

	// GetTicks retrieves the OHLCV series for a symbol (public data)
	GetTicks(ctx context.Context, symbol string, length, interval int) (*models.Ticks, error)

	// Order submits a trading order on a Trading-kind account
	Order(ctx context.Context, side models.OrderSide, account *models.Account, symbol string, quantity int, limit *float64) error

	// GetTradingSummary retrieves the position segments of a trading account
	GetTradingSummary(ctx context.Context, account *models.Account) ([]models.TradingSummary, error)
}

// ClientFactory builds a fresh BankClient for one request lifecycle.
type ClientFactory func() BankClient
