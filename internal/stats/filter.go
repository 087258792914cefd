package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/ridestats/internal/model"
)

// FilterByYear keeps activities dated in year, preserving input order.
func FilterByYear(activities []model.Activity, year int) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Date.Year() != year {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilterByType keeps activities of the given type (case-insensitive).
// An empty type keeps everything.
func FilterByType(activities []model.Activity, activityType string) []model.Activity {
	activityType = strings.TrimSpace(activityType)
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if activityType != "" && !strings.EqualFold(a.Type, activityType) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Filter applies the year and type selection of opts. opts must be resolved.
func Filter(activities []model.Activity, opts model.Options) []model.Activity {
	return FilterByType(FilterByYear(activities, opts.Year), opts.Type)
}

// Years lists the distinct activity years, newest first.
func Years(activities []model.Activity) []int {
	seen := make(map[int]struct{})
	for _, a := range activities {
		seen[a.Date.Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
