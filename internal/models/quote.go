package models

import "math"

// QuoteTab is a single OHLCV sample as returned by the GetTicksEOD endpoint.
// The remote reports volume as a decimal, not an integer.
type QuoteTab struct {
	Date   string  `json:"d"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// Ticks is a chronological series of quote samples for one symbol.
// Insertion order is chronological order.
type Ticks struct {
	Symbol   string     `json:"symbol,omitempty"`
	QuoteTab []QuoteTab `json:"quoteTab"`
}

// Highest returns the maximum per-sample high. NaN samples are excluded;
// the second return is false on an empty or all-NaN series.
func (t *Ticks) Highest() (float64, bool) {
	best := math.NaN()
	found := false
	for _, q := range t.QuoteTab {
		if math.IsNaN(q.High) {
			continue
		}
		if !found || q.High > best {
			best = q.High
			found = true
		}
	}
	return best, found
}

// Lowest returns the minimum per-sample low, with the same NaN handling
// as Highest.
func (t *Ticks) Lowest() (float64, bool) {
	best := math.NaN()
	found := false
	for _, q := range t.QuoteTab {
		if math.IsNaN(q.Low) {
			continue
		}
		if !found || q.Low < best {
			best = q.Low
			found = true
		}
	}
	return best, found
}

// Average returns the arithmetic mean of per-sample closes, or false on an
// empty series.
func (t *Ticks) Average() (float64, bool) {
	if len(t.QuoteTab) == 0 {
		return 0, false
	}
	var sum float64
	for _, q := range t.QuoteTab {
		sum += q.Close
	}
	return sum / float64(len(t.QuoteTab)), true
}

// Volume returns the summed per-sample volume, or false on an empty series.
func (t *Ticks) Volume() (float64, bool) {
	if len(t.QuoteTab) == 0 {
		return 0, false
	}
	var sum float64
	for _, q := range t.QuoteTab {
		sum += q.Volume
	}
	return sum, true
}

// Last returns the chronologically last sample, or nil on an empty series.
func (t *Ticks) Last() *QuoteTab {
	if len(t.QuoteTab) == 0 {
		return nil
	}
	q := t.QuoteTab[len(t.QuoteTab)-1]
	return &q
}
