// Copyright (c) 2025 BVK Chaitanya

package pnl

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

// DayMap holds per-day PnL sums in micro dollars. Days are iterated in the
// order they were first added.
type DayMap struct {
	days []string

	sums map[string]decimal.Decimal

	counts map[string]int
}

func NewDayMap() *DayMap {
	return &DayMap{
		sums:   make(map[string]decimal.Decimal),
		counts: make(map[string]int),
	}
}

// Add adds a trade's pnl value into the day's bucket, creating it if
// necessary.
func (m *DayMap) Add(day string, pnl decimal.Decimal) {
	if m.sums == nil {
		m.sums = make(map[string]decimal.Decimal)
		m.counts = make(map[string]int)
	}
	sum, ok := m.sums[day]
	if !ok {
		m.days = append(m.days, day)
	}
	m.sums[day] = sum.Add(pnl)
	m.counts[day]++
}

func (m *DayMap) Len() int {
	return len(m.days)
}

func (m *DayMap) Days() []string {
	return slices.Clone(m.days)
}

// PnL returns the sum for a day in micro dollars.
func (m *DayMap) PnL(day string) decimal.Decimal {
	return m.sums[day]
}

// NumTrades returns the number of trades added for a day.
func (m *DayMap) NumTrades(day string) int {
	return m.counts[day]
}

// Total returns the sum of all buckets in micro dollars.
func (m *DayMap) Total() decimal.Decimal {
	var total decimal.Decimal
	for _, day := range m.days {
		total = total.Add(m.sums[day])
	}
	return total
}

// All returns an iterator over the days and their sums in insertion order.
func (m *DayMap) All() iter.Seq2[string, decimal.Decimal] {
	return func(yield func(string, decimal.Decimal) bool) {
		for _, day := range m.days {
			if !yield(day, m.sums[day]) {
				return
			}
		}
	}
}
