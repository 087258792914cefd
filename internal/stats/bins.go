package stats

import (
	"fmt"

	"github.com/verte-zerg/ridestats/internal/model"
)

const (
	binWidthKM = 10
	binCapKM   = 100
)

// HeatmapMatrix sums kilometers per (month, day-of-month). The matrix has no
// year axis: callers filter by year first, otherwise the same calendar day of
// different years is summed together.
func HeatmapMatrix(activities []model.Activity) model.Heatmap {
	var h model.Heatmap
	for _, a := range activities {
		h[int(a.Date.Month())-1][a.Date.Day()-1] += a.Distance / 1000
	}
	return h
}

// HistogramLabels returns the ride-length bin labels in ascending order.
func HistogramLabels() []string {
	labels := make([]string, 0, binCapKM/binWidthKM+1)
	for lo := 0; lo < binCapKM; lo += binWidthKM {
		labels = append(labels, fmt.Sprintf("%d-%d", lo, lo+binWidthKM))
	}
	return append(labels, fmt.Sprintf("%d+", binCapKM))
}

// RideLengthHistogram counts activities per 10 km bin. Bins are
// left-inclusive and right-exclusive; the last bin is open above. Every bin
// is present, even when empty.
func RideLengthHistogram(activities []model.Activity) model.Histogram {
	labels := HistogramLabels()
	hist := make(model.Histogram, len(labels))
	for i, label := range labels {
		hist[i] = model.Bin{Label: label}
	}
	last := len(hist) - 1
	for _, a := range activities {
		km := a.Distance / 1000
		idx := last
		if km < binCapKM {
			idx = int(km / binWidthKM)
		}
		hist[idx].Count++
	}
	return hist
}

// MonthlyDistanceTotals sums kilometers per calendar month, January first.
// Like HeatmapMatrix it is year-agnostic.
func MonthlyDistanceTotals(activities []model.Activity) model.MonthlyTotals {
	totals := make(model.MonthlyTotals, len(model.MonthLabels))
	for i, label := range model.MonthLabels {
		totals[i] = model.MonthTotal{Month: label}
	}
	for _, a := range activities {
		totals[int(a.Date.Month())-1].KM += a.Distance / 1000
	}
	return totals
}
