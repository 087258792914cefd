// Package model defines shared data structures.
package model

import "time"

// DateLayout is the calendar date format used for bucketing and streak keys.
const DateLayout = "2006-01-02"

// Activity is a validated activity record. Only the store builds these.
type Activity struct {
	ID                 int64   `json:"id,omitempty"`
	Name               string  `json:"name,omitempty"`
	Type               string  `json:"type,omitempty"`
	StartDate          string  `json:"start_date"`
	Distance           float64 `json:"distance"`
	MovingTime         int64   `json:"moving_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"`

	// Date is the UTC midnight of the start_date calendar day.
	Date time.Time `json:"-"`
}

// Day returns the activity calendar date as YYYY-MM-DD.
func (a Activity) Day() string {
	return a.Date.Format(DateLayout)
}

// Options selects the activities a report covers. It is passed at call time
// instead of living in package state.
type Options struct {
	Year  int       `json:"year"`
	Type  string    `json:"type,omitempty"`
	Today time.Time `json:"today"`
}

// Resolve fills unset fields: Today defaults to now and Year to Today's year.
func (o Options) Resolve(now time.Time) Options {
	if o.Today.IsZero() {
		o.Today = now
	}
	if o.Year == 0 {
		o.Year = o.Today.Year()
	}
	return o
}

// Summary holds the scalar aggregates of an activity set.
type Summary struct {
	DistanceKM     float64 `json:"distance_km"`
	Rides          int     `json:"rides"`
	MovingTimeSec  int64   `json:"moving_time_sec"`
	ElevationM     float64 `json:"elevation_m"`
	RideDays       int     `json:"ride_days"`
	BiggestRideM   float64 `json:"biggest_ride_m"`
	LongestRideSec int64   `json:"longest_ride_sec"`
	CurrentStreak  int     `json:"current_streak_days"`
}

// Heatmap is a month x day-of-month grid of summed kilometers.
type Heatmap [12][31]float64

// Max returns the largest cell value.
func (h Heatmap) Max() float64 {
	maxVal := 0.0
	for _, row := range h {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// Bin is one ride-length histogram bucket.
type Bin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram is the ordered list of ride-length bins.
type Histogram []Bin

// MonthTotal is the summed distance of one calendar month.
type MonthTotal struct {
	Month string  `json:"month"`
	KM    float64 `json:"km"`
}

// MonthlyTotals holds twelve entries, January first.
type MonthlyTotals []MonthTotal

// MonthLabels are the short month names used as row and bar labels.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
