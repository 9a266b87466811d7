package models

import "testing"

func TestParseOrderSide(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderSide
		wantErr bool
	}{
		{"buy", OrderBuy, false},
		{"sell", OrderSell, false},
		{"BUY", OrderBuy, false},
		{" sell ", OrderSell, false},
		{"short", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOrderSide(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrderSide(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrderSide(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFlattenPositions(t *testing.T) {
	summaries := []TradingSummary{
		{Positions: []Position{{Symbol: "1rTCW8"}, {Symbol: "1rTTTE"}}},
		{Positions: nil},
		{Positions: []Position{{Symbol: "1rTCW8"}}},
	}

	positions := FlattenPositions(summaries)
	if len(positions) != 3 {
		t.Fatalf("flattened %d positions, want 3", len(positions))
	}
	// Duplicates across segments are preserved, in segment order.
	if positions[0].Symbol != "1rTCW8" || positions[1].Symbol != "1rTTTE" || positions[2].Symbol != "1rTCW8" {
		t.Errorf("unexpected order: %v", positions)
	}
}

func TestFlattenPositionsEmpty(t *testing.T) {
	if got := FlattenPositions(nil); len(got) != 0 {
		t.Errorf("FlattenPositions(nil) = %v, want empty", got)
	}
	if got := FlattenPositions([]TradingSummary{{}, {}}); len(got) != 0 {
		t.Errorf("expected no positions from empty segments, got %v", got)
	}
}
