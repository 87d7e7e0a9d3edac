// Package reports renders spending summaries as PNG charts.
package reports

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"money-tracker-go-be/finance"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no spending to chart for this period")

var background = chart.Style{
	Padding: chart.Box{
		Top:    50,
		Left:   50,
		Right:  50,
		Bottom: 50,
	},
	FillColor: chart.ColorWhite,
}

// CategoryPie draws each category's share of the period's spending. Categories
// below one percent are left out so their labels do not overlap.
func CategoryPie(s finance.Summary) ([]byte, error) {
	if s.TotalSpent <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		share := c.Total * 100 / s.TotalSpent
		if share <= 1 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: ₹%.0f (%.1f%%)", c.Category, c.Total, share),
			Value: c.Total,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      "Spending by category, " + s.Period,
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// MonthlyBars draws one bar per month of spending.
func MonthlyBars(title string, totals []finance.MonthTotal) ([]byte, error) {
	peak := 0.0
	bars := make([]chart.Value, 0, len(totals))
	for _, m := range totals {
		peak = max(peak, m.Total)
		bars = append(bars, chart.Value{
			Label: m.Month,
			Value: m.Total,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(180),
			},
		})
	}
	if peak <= 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("₹%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render monthly chart: %w", err)
	}
	return buf.Bytes(), nil
}
