package models

import (
	"fmt"
	"strings"
)

// OrderSide is the direction of a trading order.
type OrderSide string

const (
	OrderBuy  OrderSide = "buy"
	OrderSell OrderSide = "sell"
)

// ParseOrderSide parses a side value from an API request.
func ParseOrderSide(s string) (OrderSide, error) {
	switch OrderSide(strings.ToLower(strings.TrimSpace(s))) {
	case OrderBuy:
		return OrderBuy, nil
	case OrderSell:
		return OrderSell, nil
	}
	return "", fmt.Errorf("unknown order side %q", s)
}

// Amount is a value with an optional currency, as the trading position
// endpoint reports quantities and valuations.
type Amount struct {
	Currency *string `json:"currency"`
	Value    float64 `json:"value"`
}

// Position is a single holding inside a trading summary segment.
type Position struct {
	Amount   Amount `json:"amount"`
	Label    string `json:"label"`
	Quantity Amount `json:"quantity"`
	Symbol   string `json:"symbol"`
}

// TradingSummary is one segment of a trading account's position listing.
// The remote may split one account into several segments, each with its
// own position list.
type TradingSummary struct {
	Positions []Position `json:"positions"`
}

// FlattenPositions concatenates the positions of every summary segment in
// order. Duplicates are preserved; deduplication is the caller's decision.
func FlattenPositions(summaries []TradingSummary) []Position {
	var positions []Position
	for _, s := range summaries {
		positions = append(positions, s.Positions...)
	}
	return positions
}
