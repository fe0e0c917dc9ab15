package services

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderAttendanceChart draws the weekly presence series as a PNG bar chart.
func RenderAttendanceChart(w io.Writer, days []DayPresence) error {
	bars := make([]chart.Value, 0, len(days))
	peak := 1.0
	for _, d := range days {
		v := float64(d.Present)
		if v > peak {
			peak = v
		}
		bars = append(bars, chart.Value{Label: d.Name, Value: v})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "-", Value: 0})
	}

	graph := chart.BarChart{
		Title:      "Attendance, last 7 days",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      720,
		Height:     360,
		BarWidth:   60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
