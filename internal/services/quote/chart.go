// Package quote renders derived views over tick series.
package quote

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/boursagent/boursagent/internal/models"
)

// RenderTickChart renders a PNG line chart of per-sample closes, with the
// high/low band as a second dashed pair. Returns raw PNG bytes.
func RenderTickChart(ticks *models.Ticks) ([]byte, error) {
	if ticks == nil || len(ticks.QuoteTab) < 2 {
		n := 0
		if ticks != nil {
			n = len(ticks.QuoteTab)
		}
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}

	xValues := make([]float64, len(ticks.QuoteTab))
	closeY := make([]float64, len(ticks.QuoteTab))
	highY := make([]float64, len(ticks.QuoteTab))
	lowY := make([]float64, len(ticks.QuoteTab))

	for i, q := range ticks.QuoteTab {
		xValues[i] = float64(i)
		closeY[i] = q.Close
		highY[i] = q.High
		lowY[i] = q.Low
	}

	closeSeries := chart.ContinuousSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: closeY,
	}

	highSeries := chart.ContinuousSeries{
		Name: "High",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: highY,
	}

	lowSeries := chart.ContinuousSeries{
		Name: "Low",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: lowY,
	}

	title := ticks.Symbol
	if title == "" {
		title = "Quotes"
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					i := int(f)
					if i >= 0 && i < len(ticks.QuoteTab) {
						return ticks.QuoteTab[i].Date
					}
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			closeSeries,
			highSeries,
			lowSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
