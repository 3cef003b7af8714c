// Copyright (c) 2025 BVK Chaitanya

package pnl

import (
	"time"

	"github.com/bvk/pnlhistory/perpapi"
	"github.com/bvk/pnlhistory/timerange"
)

// DefaultDateLayout formats day keys like the en-US locale, e.g. 1/2/2024.
const DefaultDateLayout = "1/2/2006"

// Folder folds trades into day buckets.
type Folder struct {
	// Location is the time zone for day boundaries. Defaults to time.Local.
	Location *time.Location

	// DateLayout is the Go time layout for the day keys. Defaults to
	// DefaultDateLayout.
	DateLayout string

	// Period, when non-nil, skips trades created outside of it.
	Period *timerange.Range
}

// DayKey returns the bucket key for a timestamp.
func (f *Folder) DayKey(t time.Time) string {
	loc, layout := time.Local, DefaultDateLayout
	if f != nil && f.Location != nil {
		loc = f.Location
	}
	if f != nil && f.DateLayout != "" {
		layout = f.DateLayout
	}
	return t.In(loc).Format(layout)
}

// Fold adds the trades into m and returns it. A new DayMap is allocated when
// m is nil.
func (f *Folder) Fold(m *DayMap, trades []*perpapi.Trade) *DayMap {
	if m == nil {
		m = NewDayMap()
	}
	for _, t := range trades {
		if f != nil && f.Period != nil && !f.Period.InRange(t.CreatedAt) {
			continue
		}
		m.Add(f.DayKey(t.CreatedAt), t.PnlUSD)
	}
	return m
}

// Reduce folds all pages, in order, into the initial DayMap.
func Reduce(f *Folder, pages []*perpapi.TradesPage, initial *DayMap) *DayMap {
	m := initial
	if m == nil {
		m = NewDayMap()
	}
	for _, page := range pages {
		m = f.Fold(m, page.Trades)
	}
	return m
}
