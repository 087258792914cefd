// Package stats contains activity aggregation, binning and text reporting.
package stats

import (
	"time"

	"github.com/verte-zerg/ridestats/internal/model"
)

// TotalDistance returns the summed distance in kilometers.
func TotalDistance(activities []model.Activity) float64 {
	var meters float64
	for _, a := range activities {
		meters += a.Distance
	}
	return meters / 1000
}

// NumRides returns the number of activities.
func NumRides(activities []model.Activity) int {
	return len(activities)
}

// MovingTime returns the summed moving time in seconds.
func MovingTime(activities []model.Activity) int64 {
	var total int64
	for _, a := range activities {
		total += a.MovingTime
	}
	return total
}

// Elevation returns the summed elevation gain in meters.
func Elevation(activities []model.Activity) float64 {
	var total float64
	for _, a := range activities {
		total += a.TotalElevationGain
	}
	return total
}

// RideDays counts the distinct calendar dates with at least one activity.
func RideDays(activities []model.Activity) int {
	days := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		days[a.Day()] = struct{}{}
	}
	return len(days)
}

// BiggestRide returns the longest single distance in meters, 0 when empty.
func BiggestRide(activities []model.Activity) float64 {
	biggest := 0.0
	for _, a := range activities {
		if a.Distance > biggest {
			biggest = a.Distance
		}
	}
	return biggest
}

// LongestRide returns the longest single moving time in seconds, 0 when empty.
func LongestRide(activities []model.Activity) int64 {
	var longest int64
	for _, a := range activities {
		if a.MovingTime > longest {
			longest = a.MovingTime
		}
	}
	return longest
}

// Streak counts consecutive days with an activity ending exactly at from's
// calendar date. Activities after that date are ignored, so input order does
// not matter.
func Streak(activities []model.Activity, from time.Time) int {
	end := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	present := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		if a.Date.After(end) {
			continue
		}
		present[a.Day()] = struct{}{}
	}

	streak := 0
	for day := end; ; day = day.AddDate(0, 0, -1) {
		if _, ok := present[day.Format(model.DateLayout)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// Summarize computes every scalar aggregate, using today for the streak.
func Summarize(activities []model.Activity, today time.Time) model.Summary {
	return model.Summary{
		DistanceKM:     TotalDistance(activities),
		Rides:          NumRides(activities),
		MovingTimeSec:  MovingTime(activities),
		ElevationM:     Elevation(activities),
		RideDays:       RideDays(activities),
		BiggestRideM:   BiggestRide(activities),
		LongestRideSec: LongestRide(activities),
		CurrentStreak:  Streak(activities, today),
	}
}
