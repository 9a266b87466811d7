package models

import (
	"encoding/json"
	"math"
	"testing"
)

func series(samples ...QuoteTab) *Ticks {
	return &Ticks{Symbol: "1rTCW8", QuoteTab: samples}
}

func TestTicksAverage(t *testing.T) {
	ticks := series(QuoteTab{Close: 10}, QuoteTab{Close: 20})
	avg, ok := ticks.Average()
	if !ok {
		t.Fatal("expected a value for a non-empty series")
	}
	if avg != 15 {
		t.Errorf("average = %v, want 15", avg)
	}
}

func TestTicksVolume(t *testing.T) {
	ticks := series(QuoteTab{Volume: 1.5}, QuoteTab{Volume: 2.5})
	vol, ok := ticks.Volume()
	if !ok {
		t.Fatal("expected a value for a non-empty series")
	}
	if vol != 4 {
		t.Errorf("volume = %v, want 4", vol)
	}
}

func TestTicksHighestLowest(t *testing.T) {
	ticks := series(
		QuoteTab{High: 5, Low: 5},
		QuoteTab{High: 9, Low: 9},
		QuoteTab{High: 3, Low: 3},
	)

	high, ok := ticks.Highest()
	if !ok || high != 9 {
		t.Errorf("highest = %v ok=%v, want 9 true", high, ok)
	}
	low, ok := ticks.Lowest()
	if !ok || low != 3 {
		t.Errorf("lowest = %v ok=%v, want 3 true", low, ok)
	}
}

func TestTicksExtremaSkipNaN(t *testing.T) {
	ticks := series(
		QuoteTab{High: math.NaN(), Low: math.NaN()},
		QuoteTab{High: 7, Low: 2},
	)

	high, ok := ticks.Highest()
	if !ok || high != 7 {
		t.Errorf("highest = %v ok=%v, want 7 true", high, ok)
	}
	low, ok := ticks.Lowest()
	if !ok || low != 2 {
		t.Errorf("lowest = %v ok=%v, want 2 true", low, ok)
	}
}

func TestTicksAllNaNHasNoExtrema(t *testing.T) {
	ticks := series(QuoteTab{High: math.NaN(), Low: math.NaN()})
	if _, ok := ticks.Highest(); ok {
		t.Error("expected no highest for an all-NaN series")
	}
	if _, ok := ticks.Lowest(); ok {
		t.Error("expected no lowest for an all-NaN series")
	}
}

func TestTicksEmptySeries(t *testing.T) {
	ticks := series()
	if _, ok := ticks.Average(); ok {
		t.Error("expected no average for an empty series")
	}
	if _, ok := ticks.Volume(); ok {
		t.Error("expected no volume for an empty series")
	}
	if _, ok := ticks.Highest(); ok {
		t.Error("expected no highest for an empty series")
	}
	if last := ticks.Last(); last != nil {
		t.Errorf("last = %v, want nil", last)
	}
}

func TestTicksSingleSample(t *testing.T) {
	ticks := series(QuoteTab{Date: "2024-03-01", High: 9, Low: 7, Close: 8, Volume: 100})

	if high, ok := ticks.Highest(); !ok || high != 9 {
		t.Errorf("highest = %v ok=%v, want 9 true", high, ok)
	}
	if low, ok := ticks.Lowest(); !ok || low != 7 {
		t.Errorf("lowest = %v ok=%v, want 7 true", low, ok)
	}
	if avg, ok := ticks.Average(); !ok || avg != 8 {
		t.Errorf("average = %v ok=%v, want 8 true", avg, ok)
	}
	if vol, ok := ticks.Volume(); !ok || vol != 100 {
		t.Errorf("volume = %v ok=%v, want 100 true", vol, ok)
	}
	last := ticks.Last()
	if last == nil || last.Date != "2024-03-01" {
		t.Errorf("last = %v, want the single sample", last)
	}
}

func TestTicksLastIsChronologicallyLast(t *testing.T) {
	ticks := series(
		QuoteTab{Date: "2024-03-01", Close: 10},
		QuoteTab{Date: "2024-03-04", Close: 12},
	)
	last := ticks.Last()
	if last == nil || last.Date != "2024-03-04" {
		t.Errorf("last = %v, want the 2024-03-04 sample", last)
	}
}

func TestQuoteTabWireFormat(t *testing.T) {
	var q QuoteTab
	payload := `{"d":"2024-03-01","o":10.5,"h":12,"l":9.5,"c":11,"v":1234.5}`
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Date != "2024-03-01" || q.Open != 10.5 || q.High != 12 || q.Low != 9.5 || q.Close != 11 || q.Volume != 1234.5 {
		t.Errorf("unexpected sample: %+v", q)
	}
}
