// Copyright (c) 2024 BVK Chaitanya

package timerange

import (
	"fmt"
	"time"
)

// Range is a half-open time interval. Zero Begin or End values leave that side
// of the interval unbounded.
type Range struct {
	Begin, End time.Time
}

func (r *Range) IsZero() bool {
	return r.Begin.IsZero() && r.End.IsZero()
}

func (r *Range) InRange(v time.Time) bool {
	if r.IsZero() {
		return true
	}
	if !r.Begin.IsZero() && v.Before(r.Begin) {
		return false
	}
	if !r.End.IsZero() && (v.Equal(r.End) || v.After(r.End)) {
		return false
	}
	return true
}

func (r *Range) String() string {
	format := func(v time.Time) string {
		if v.IsZero() {
			return "*"
		}
		return v.Format(time.RFC3339)
	}
	return fmt.Sprintf("[%s, %s)", format(r.Begin), format(r.End))
}

// Dates returns a range covering the begin date through the end of the end
// date. Dates are in YYYY-MM-DD format and either one can be empty.
func Dates(begin, end string, zone *time.Location) (*Range, error) {
	if zone == nil {
		zone = time.Local
	}
	r := new(Range)
	if len(begin) != 0 {
		v, err := time.ParseInLocation(time.DateOnly, begin, zone)
		if err != nil {
			return nil, fmt.Errorf("could not parse begin date: %w", err)
		}
		r.Begin = v
	}
	if len(end) != 0 {
		v, err := time.ParseInLocation(time.DateOnly, end, zone)
		if err != nil {
			return nil, fmt.Errorf("could not parse end date: %w", err)
		}
		r.End = v.AddDate(0, 0, 1)
	}
	if !r.Begin.IsZero() && !r.End.IsZero() && !r.Begin.Before(r.End) {
		return nil, fmt.Errorf("begin date %s is after the end date %s", begin, end)
	}
	return r, nil
}
