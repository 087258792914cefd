package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/ridestats/internal/model"
)

func TestSummaryMetrics(t *testing.T) {
	metrics := SummaryMetrics(model.Summary{
		DistanceKM:     1234.567,
		Rides:          42,
		MovingTimeSec:  9000,
		ElevationM:     3100,
		RideDays:       40,
		BiggestRideM:   160934,
		LongestRideSec: 27000,
		CurrentStreak:  3,
	})
	got := map[string]string{}
	for _, m := range metrics {
		got[m.Label] = m.Value
	}
	assert.Equal(t, "1234.57 km", got["Distance"])
	assert.Equal(t, "3 days", got["Current Streak"])
	assert.Equal(t, "42", got["Rides"])
	assert.Equal(t, "40", got["Ride Days"])
	assert.Equal(t, "2.50 hours", got["Duration"])
	assert.Equal(t, "7.50 hours", got["Longest Ride"])
	assert.Equal(t, "160.93 km", got["Biggest Ride"])
	assert.Equal(t, "3100.00 m", got["Elevation"])
}

func TestHistogramBarsAlwaysListsEveryBin(t *testing.T) {
	lines := HistogramBars(RideLengthHistogram(nil), 60)
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "  0-10 │ 0"), lines[0])
	assert.True(t, strings.HasPrefix(lines[10], "  100+ │ 0"), lines[10])
	assert.NotContains(t, strings.Join(lines, "\n"), "█")
}

func TestHistogramBarsScale(t *testing.T) {
	hist := RideLengthHistogram([]model.Activity{
		ride(t, "2024-01-01", 5, 1),
		ride(t, "2024-01-02", 15, 1),
		ride(t, "2024-01-03", 16, 1),
	})
	lines := HistogramBars(hist, 30)
	full := strings.Count(lines[1], "█")
	half := strings.Count(lines[0], "█")
	assert.Positive(t, half)
	assert.Equal(t, full/2, half)
}

func TestHeatmapRows(t *testing.T) {
	var h model.Heatmap
	h[0][0] = 50
	h[1][14] = 10
	rows := HeatmapRows(h, false)
	require.Len(t, rows, 13)
	assert.Equal(t, "Jan @", rows[1][:5])
	assert.Equal(t, byte('-'), rows[2][4+14])
	assert.Equal(t, "Dec "+strings.Repeat(" ", 31), rows[12])
}

func TestRenderReport(t *testing.T) {
	acts := []model.Activity{
		ride(t, "2024-05-01", 30, 3600),
		ride(t, "2024-05-02", 120, 18000),
	}
	report := BuildReportFrom(acts, model.Options{Year: 2024, Today: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)})

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, report, 80, false))
	out := buf.String()
	for _, want := range []string{
		"Year 2024",
		"Summary",
		"Distance",
		"150.00 km",
		"2 days",
		"Distance (km) by Date",
		"Ride Count by Length (km)",
		"Monthly Distance (km)",
		"May",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
}
