package portfolio

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/whoisarjen/investo/internal/models"
)

// RenderHoldingsChart renders a PNG bar chart of current value per holding.
// Holdings arrive pre-sorted by value descending, so the chart reads
// largest-first. Returns raw PNG bytes.
func RenderHoldingsChart(m *models.PortfolioMetrics) ([]byte, error) {
	if len(m.Holdings) == 0 {
		return nil, fmt.Errorf("no holdings to chart")
	}

	bars := make([]chart.Value, len(m.Holdings))
	for i, h := range m.Holdings {
		bars[i] = chart.Value{
			Label: h.ETFSymbol,
			Value: h.CurrentValue,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"), // blue-600
				StrokeColor: drawing.ColorFromHex("2563eb"),
			},
		}
	}

	graph := chart.BarChart{
		Title:  "Holdings by Current Value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
