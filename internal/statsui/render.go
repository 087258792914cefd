package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ridestats/internal/model"
	"github.com/verte-zerg/ridestats/internal/stats"
)

const (
	accent = lipgloss.Color("#FC4C02")
	muted  = lipgloss.Color("#6E6E6E")
	edge   = lipgloss.Color("#4A4A4A")
)

var (
	tabBase = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), true)
	tabActiveStyle = tabBase.
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			BorderForeground(accent)
	tabIdleStyle = tabBase.
			Foreground(lipgloss.Color("#B0B0B0")).
			BorderForeground(edge)
	hintStyle    = lipgloss.NewStyle().Foreground(muted)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	headingStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Width(18).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(edge)
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

const maxCardsPerRow = 4

func overviewView(r stats.Report, width int) string {
	title := headingStyle.Render(fmt.Sprintf("Year %d", r.Options.Year))
	if r.Summary.Rides == 0 {
		return title + "\n\nNo activities for this selection."
	}
	metrics := stats.SummaryMetrics(r.Summary)
	cards := make([]string, len(metrics))
	for i, metric := range metrics {
		cards[i] = cardStyle.Render(cardLabelStyle.Render(metric.Label) + "\n" + cardValueStyle.Render(metric.Value))
	}
	return title + "\n\n" + cardGrid(cards, width)
}

// cardGrid lays equal-width cards out in rows that fit width.
func cardGrid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := min(max(width/lipgloss.Width(cards[0]), 1), maxCardsPerRow)
	var rows []string
	for len(cards) > 0 {
		n := min(perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[:n]...))
		cards = cards[n:]
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func heatmapView(h model.Heatmap) string {
	title := headingStyle.Render(fmt.Sprintf("Distance (km) by Date  max %.2f km/day", h.Max()))
	return title + "\n\n" + strings.Join(stats.HeatmapRows(h, true), "\n")
}

func rideLengthsView(hist model.Histogram, width int) string {
	title := headingStyle.Render("Ride Count by Length (km)")
	return title + "\n\n" + strings.Join(stats.HistogramBars(hist, width), "\n")
}

func monthlyView(monthly model.MonthlyTotals, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderMonthly(&buf, monthly, width, plotHeight, true); err != nil {
		return errStyle.Render(fmt.Sprintf("Failed to render monthly totals: %v", err))
	}
	return strings.TrimRight(buf.String(), "\n")
}
