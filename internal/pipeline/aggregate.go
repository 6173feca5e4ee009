package pipeline

import (
	"strconv"
	"strings"
)

// DailyTotals accumulates a revenue sum per Order Date string, remembering
// the order in which each date was first seen. First-seen order is what
// makes the best-day tie-break deterministic: it equals the row order of the
// source table.
type DailyTotals struct {
	days   []string
	totals map[string]float64
}

// NewDailyTotals returns an empty accumulator.
func NewDailyTotals() *DailyTotals {
	return &DailyTotals{totals: make(map[string]float64)}
}

// Add accumulates v into the bucket for day, creating the bucket on first
// sight.
func (d *DailyTotals) Add(day string, v float64) {
	if _, ok := d.totals[day]; !ok {
		d.days = append(d.days, day)
	}
	d.totals[day] += v
}

// Get returns the bucket value for day, 0 when the day was never seen.
func (d *DailyTotals) Get(day string) float64 {
	return d.totals[day]
}

// Days returns the date keys in first-seen order. The slice is shared; do
// not mutate it.
func (d *DailyTotals) Days() []string {
	return d.days
}

// Len returns the number of distinct days.
func (d *DailyTotals) Len() int {
	return len(d.days)
}

// Total returns the sum over all buckets.
func (d *DailyTotals) Total() float64 {
	var sum float64
	for _, v := range d.totals {
		sum += v
	}
	return sum
}

// Map returns a copy of the bucket values keyed by date string.
func (d *DailyTotals) Map() map[string]float64 {
	out := make(map[string]float64, len(d.totals))
	for k, v := range d.totals {
		out[k] = v
	}
	return out
}

// SumByDay totals prices per Order Date string over the enriched orders.
// Coercion is best effort: a price that does not parse as a number counts
// as 0.
func SumByDay(combined []EnrichedOrder) *DailyTotals {
	totals := NewDailyTotals()
	for _, e := range combined {
		v, _ := strconv.ParseFloat(strings.TrimSpace(e.Price), 64)
		totals.Add(e.OrderDate, v)
	}
	return totals
}
