package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/ridestats/internal/model"
)

// ErrDataUnavailable reports a missing or empty activity cache.
var ErrDataUnavailable = errors.New("activity data unavailable")

// RecordError describes a provider record rejected by ParseRecords.
type RecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Reason)
}

type rawActivity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	StartDate          *string  `json:"start_date"`
	Distance           *float64 `json:"distance"`
	MovingTime         *int64   `json:"moving_time"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`
}

// ParseRecords validates provider records. Malformed records are skipped and
// reported one by one; valid records keep their input order.
func ParseRecords(records []json.RawMessage) ([]model.Activity, []*RecordError) {
	activities := make([]model.Activity, 0, len(records))
	var rejected []*RecordError
	for i, rec := range records {
		act, rerr := parseRecord(i, rec)
		if rerr != nil {
			rejected = append(rejected, rerr)
			continue
		}
		activities = append(activities, act)
	}
	return activities, rejected
}

func parseRecord(index int, rec json.RawMessage) (model.Activity, *RecordError) {
	var raw rawActivity
	if err := json.Unmarshal(rec, &raw); err != nil {
		return model.Activity{}, &RecordError{Index: index, Reason: err.Error()}
	}
	if raw.StartDate == nil {
		return model.Activity{}, &RecordError{Index: index, Field: "start_date", Reason: "missing"}
	}
	date, err := ParseDate(*raw.StartDate)
	if err != nil {
		return model.Activity{}, &RecordError{Index: index, Field: "start_date", Reason: err.Error()}
	}
	if raw.Distance == nil {
		return model.Activity{}, &RecordError{Index: index, Field: "distance", Reason: "missing"}
	}
	if *raw.Distance < 0 {
		return model.Activity{}, &RecordError{Index: index, Field: "distance", Reason: "negative"}
	}
	if raw.MovingTime == nil {
		return model.Activity{}, &RecordError{Index: index, Field: "moving_time", Reason: "missing"}
	}
	if *raw.MovingTime < 0 {
		return model.Activity{}, &RecordError{Index: index, Field: "moving_time", Reason: "negative"}
	}
	elevation := 0.0
	if raw.TotalElevationGain != nil {
		if *raw.TotalElevationGain < 0 {
			return model.Activity{}, &RecordError{Index: index, Field: "total_elevation_gain", Reason: "negative"}
		}
		elevation = *raw.TotalElevationGain
	}
	activityType := raw.Type
	if activityType == "" {
		activityType = raw.SportType
	}
	return model.Activity{
		ID:                 raw.ID,
		Name:               raw.Name,
		Type:               activityType,
		StartDate:          *raw.StartDate,
		Distance:           *raw.Distance,
		MovingTime:         *raw.MovingTime,
		TotalElevationGain: elevation,
		Date:               date,
	}, nil
}

// ParseDate returns the UTC midnight of the calendar date at the start of an
// ISO-8601 timestamp. Only the YYYY-MM-DD prefix is used.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) < len(model.DateLayout) {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD prefix, got %q", value)
	}
	if len(value) > len(model.DateLayout) && value[len(model.DateLayout)] != 'T' {
		return time.Time{}, fmt.Errorf("expected 'T' after date in %q", value)
	}
	date, err := time.Parse(model.DateLayout, value[:len(model.DateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return date, nil
}

func logRejected(source string, rejected []*RecordError) {
	for _, rerr := range rejected {
		logrus.WithFields(logrus.Fields{
			"source": source,
			"index":  rerr.Index,
			"field":  rerr.Field,
		}).Warnf("skipping malformed activity: %s", rerr.Reason)
	}
}
