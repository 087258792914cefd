package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/ridestats/internal/model"
)

// Loader provides the full activity collection.
type Loader interface {
	Load(ctx context.Context) ([]model.Activity, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Options   model.Options       `json:"options"`
	Years     []int               `json:"years"`
	Summary   model.Summary       `json:"summary"`
	Heatmap   model.Heatmap       `json:"heatmap"`
	Histogram model.Histogram     `json:"histogram"`
	Monthly   model.MonthlyTotals `json:"monthly"`
}

// BuildReport loads activities and prepares data for stats rendering.
func BuildReport(ctx context.Context, loader Loader, opts model.Options) (Report, error) {
	activities, err := loader.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReportFrom(activities, opts), nil
}

// BuildReportFrom prepares a report over an already loaded collection.
func BuildReportFrom(activities []model.Activity, opts model.Options) Report {
	opts = opts.Resolve(time.Now())
	selected := Filter(activities, opts)
	return Report{
		Options:   opts,
		Years:     Years(activities),
		Summary:   Summarize(selected, opts.Today),
		Heatmap:   HeatmapMatrix(selected),
		Histogram: RideLengthHistogram(selected),
		Monthly:   MonthlyDistanceTotals(selected),
	}
}
