// Package models defines the domain types for boursagent
package models

import (
	"fmt"
	"strings"
)

// AccountKind classifies a discovered account by the URL pattern that
// matched its anchor on the account summary page.
type AccountKind string

const (
	// AccountKindAny matches every kind (no filter).
	AccountKindAny AccountKind = ""

	AccountKindBanking AccountKind = "banking"
	AccountKindSavings AccountKind = "savings"
	AccountKindTrading AccountKind = "trading"
	AccountKindLoans   AccountKind = "loans"
	AccountKindUnknown AccountKind = "unknown"
)

// ParseAccountKind parses a kind name as it appears in an API path segment.
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(strings.ToLower(strings.TrimSpace(s))) {
	case AccountKindBanking:
		return AccountKindBanking, nil
	case AccountKindSavings:
		return AccountKindSavings, nil
	case AccountKindTrading:
		return AccountKindTrading, nil
	case AccountKindLoans:
		return AccountKindLoans, nil
	case AccountKindUnknown:
		return AccountKindUnknown, nil
	}
	return AccountKindAny, fmt.Errorf("unknown account kind %q", s)
}

// Account is a single account discovered on the summary page. The ID is the
// opaque slug captured after the literal "s-" prefix of the anchor URL;
// identity is the ID alone.
type Account struct {
	ID   string      `json:"id"`
	Kind AccountKind `json:"kind"`
}

// FilterAccounts returns the accounts matching kind. AccountKindAny keeps
// everything.
func FilterAccounts(accounts []Account, kind AccountKind) []Account {
	if kind == AccountKindAny {
		return accounts
	}
	filtered := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Kind == kind {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
