// Copyright (c) 2025 BVK Chaitanya

package timerange

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

var periods = map[string]func(*time.Location, time.Time) *Range{
	"today":      today,
	"yesterday":  yesterday,
	"this-week":  thisWeek,
	"last-week":  lastWeek,
	"this-month": thisMonth,
	"last-month": lastMonth,
	"this-year":  thisYear,
	"last-year":  lastYear,
	"lifetime":   lifetime,
}

// Periods returns the names accepted by Parse in sorted order.
func Periods() []string {
	var names []string
	for name := range periods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parse returns the named period relative to the current time in the given
// zone.
func Parse(name string, zone *time.Location) (*Range, error) {
	return parseAt(name, zone, time.Now())
}

func parseAt(name string, zone *time.Location, now time.Time) (*Range, error) {
	fn, ok := periods[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown period %q (want one of %s)", name, strings.Join(Periods(), "|"))
	}
	if zone == nil {
		zone = time.Local
	}
	return fn(zone, now.In(zone)), nil
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func lifetime(zone *time.Location, _ time.Time) *Range {
	return &Range{
		Begin: time.Date(2000, 9, 24, 0, 0, 0, 0, zone),
		End:   time.Date(2100, 9, 24, 0, 0, 0, 0, zone),
	}
}

func today(_ *time.Location, now time.Time) *Range {
	beg := startOfDay(now)
	return &Range{Begin: beg, End: beg.AddDate(0, 0, 1)}
}

func yesterday(_ *time.Location, now time.Time) *Range {
	end := startOfDay(now)
	return &Range{Begin: end.AddDate(0, 0, -1), End: end}
}

func thisWeek(_ *time.Location, now time.Time) *Range {
	begin := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	return &Range{Begin: begin, End: begin.AddDate(0, 0, 7)}
}

func lastWeek(_ *time.Location, now time.Time) *Range {
	end := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	return &Range{Begin: end.AddDate(0, 0, -7), End: end}
}

func thisMonth(zone *time.Location, now time.Time) *Range {
	begin := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
}

func lastMonth(zone *time.Location, now time.Time) *Range {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: end.AddDate(0, -1, 0), End: end}
}

func thisYear(zone *time.Location, now time.Time) *Range {
	begin := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, zone)
	return &Range{Begin: begin, End: begin.AddDate(1, 0, 0)}
}

func lastYear(zone *time.Location, now time.Time) *Range {
	end := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, zone)
	return &Range{Begin: end.AddDate(-1, 0, 0), End: end}
}
