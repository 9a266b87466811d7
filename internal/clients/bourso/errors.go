// Package bourso provides a client for the Boursobank private web session.
package bourso

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates bad credentials, an expired session, or an
	// authenticated operation attempted on an unauthenticated client.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMfaRequired indicates the remote demanded a second factor after
	// the primary credentials were accepted. The session is left
	// initialized but not authenticated.
	ErrMfaRequired = errors.New("MFA required")
)

// TransportError wraps a network-level failure (connection, timeout,
// context cancellation) for one named operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedPayloadError indicates the remote markup or response shape no
// longer matches what the client expects.
type MalformedPayloadError struct {
	Detail string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed payload: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed payload: %s", e.Detail)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// SlotNotFoundError indicates a password character absent from every key of
// the session's virtual keypad. Login is aborted before any submission.
type SlotNotFoundError struct {
	Char rune
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("no virtual pad key for character %q", e.Char)
}

// SymbolNotFoundError indicates the quote endpoint returned no data for a
// symbol.
type SymbolNotFoundError struct {
	Symbol string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("no quote data for symbol %q", e.Symbol)
}

// AccountNotFoundError indicates an account id absent from a freshly
// discovered account list.
type AccountNotFoundError struct {
	ID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.ID)
}

// OrderRejectedError carries the remote side's business rejection reason.
type OrderRejectedError struct {
	Reason string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order rejected: %s", e.Reason)
}
