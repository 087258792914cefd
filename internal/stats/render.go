package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/ridestats/internal/model"
)

const heatRamp = " .:-=+*#%@"

// Metric is a labelled, formatted summary value.
type Metric struct {
	Label string
	Value string
}

// SummaryMetrics formats the summary the way every view shows it.
func SummaryMetrics(s model.Summary) []Metric {
	return []Metric{
		{Label: "Distance", Value: fmt.Sprintf("%.2f km", s.DistanceKM)},
		{Label: "Current Streak", Value: fmt.Sprintf("%d days", s.CurrentStreak)},
		{Label: "Rides", Value: strconv.Itoa(s.Rides)},
		{Label: "Ride Days", Value: strconv.Itoa(s.RideDays)},
		{Label: "Duration", Value: fmt.Sprintf("%.2f hours", hours(s.MovingTimeSec))},
		{Label: "Longest Ride", Value: fmt.Sprintf("%.2f hours", hours(s.LongestRideSec))},
		{Label: "Biggest Ride", Value: fmt.Sprintf("%.2f km", s.BiggestRideM/1000)},
		{Label: "Elevation", Value: fmt.Sprintf("%.2f m", s.ElevationM)},
	}
}

func hours(seconds int64) float64 {
	return float64(seconds) / 3600
}

// RenderSummary prints the scalar aggregates as a two-column table.
func RenderSummary(w io.Writer, s model.Summary) error {
	metrics := SummaryMetrics(s)
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.Label, m.Value})
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HeatmapRows renders one line per month, one character per day, shaded
// relative to the largest cell.
func HeatmapRows(h model.Heatmap, useColor bool) []string {
	maxVal := h.Max()
	lines := make([]string, 0, len(h)+1)
	var header strings.Builder
	header.WriteString("    ")
	for day := 1; day <= len(h[0]); day++ {
		if day%5 == 0 {
			header.WriteString(strconv.Itoa(day % 10))
		} else {
			header.WriteByte(' ')
		}
	}
	lines = append(lines, strings.TrimRight(header.String(), " "))
	for month, row := range h {
		var b strings.Builder
		b.WriteString(model.MonthLabels[month])
		b.WriteByte(' ')
		for _, km := range row {
			ch := heatChar(km, maxVal)
			if useColor && km > 0 {
				b.WriteString(colorRed)
				b.WriteByte(ch)
				b.WriteString(colorReset)
			} else {
				b.WriteByte(ch)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

func heatChar(v, maxVal float64) byte {
	if v <= 0 || maxVal <= 0 {
		return heatRamp[0]
	}
	idx := 1 + int(v/maxVal*float64(len(heatRamp)-2)+0.5)
	return heatRamp[min(idx, len(heatRamp)-1)]
}

// RenderHeatmap prints the distance-by-date grid.
func RenderHeatmap(w io.Writer, h model.Heatmap, useColor bool) error {
	if _, err := fmt.Fprintf(w, "Distance (km) by Date  max %.2f km/day\n", h.Max()); err != nil {
		return err
	}
	for _, line := range HeatmapRows(h, shouldUseColor(w, useColor)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HistogramBars renders one horizontal bar per bin in bin order.
func HistogramBars(hist model.Histogram, width int) []string {
	labelWidth, countWidth, maxCount := 0, 0, 0
	for _, b := range hist {
		labelWidth = max(labelWidth, len(b.Label))
		countWidth = max(countWidth, len(strconv.Itoa(b.Count)))
		maxCount = max(maxCount, b.Count)
	}
	barWidth := max(1, width-labelWidth-countWidth-4)
	lines := make([]string, 0, len(hist))
	for _, b := range hist {
		n := 0
		if maxCount > 0 {
			n = b.Count * barWidth / maxCount
		}
		if b.Count > 0 && n == 0 {
			n = 1
		}
		lines = append(lines, strings.TrimRight(fmt.Sprintf("%*s │ %*d %s", labelWidth, b.Label, countWidth, b.Count, strings.Repeat("█", n)), " "))
	}
	return lines
}

// RenderHistogram prints ride counts by length.
func RenderHistogram(w io.Writer, hist model.Histogram, width int) error {
	if width <= 0 {
		width = terminalWidth()
	}
	if _, err := fmt.Fprintln(w, "Ride Count by Length (km)"); err != nil {
		return err
	}
	for _, line := range HistogramBars(hist, width) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMonthly prints the monthly distance curve followed by its table.
func RenderMonthly(w io.Writer, monthly model.MonthlyTotals, width, height int, useColor bool) error {
	values := make([]float64, len(monthly))
	rows := make([][]string, 0, len(monthly))
	for i, m := range monthly {
		values[i] = m.KM
		rows = append(rows, []string{m.Month, fmt.Sprintf("%.2f", m.KM)})
	}
	if err := PlotSeries(w, Series{Name: "Monthly Distance (km)", Values: values}, width, height, useColor); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Month", "km"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints every section of r.
func RenderReport(w io.Writer, r Report, width int, useColor bool) error {
	title := fmt.Sprintf("Year %d", r.Options.Year)
	if r.Options.Type != "" {
		title += " · " + r.Options.Type
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
		return err
	}
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if err := RenderHeatmap(w, r.Heatmap, useColor); err != nil {
		return err
	}
	if err := RenderHistogram(w, r.Histogram, width); err != nil {
		return err
	}
	return RenderMonthly(w, r.Monthly, width, defaultPlotHeight, useColor)
}
