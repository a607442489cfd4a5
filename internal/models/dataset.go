package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/admetrica/spendlens/internal/utils"
)

// Observation is a single daily record of the marketing dataset plus the
// columns the pipeline derives from it.
type Observation struct {
	Date      time.Time
	AdSpend   float64
	Visits    float64 // NaN while missing, filled by the cleaner
	DayOfWeek time.Weekday
	IsWeekend bool
	VisitsMA7 float64
	SpendMA7  float64
	IsOutlier bool
}

// VisitsMissing reports whether the visits value is still the missing
// sentinel.
func (o Observation) VisitsMissing() bool {
	return math.IsNaN(o.Visits)
}

// Dataset is the ordered daily table every pipeline stage operates on.
// Stages mutate rows in place but never add, remove, or reorder them.
type Dataset struct {
	Rows []Observation
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// SortByDate orders rows ascending by date.
func (d *Dataset) SortByDate() {
	sort.SliceStable(d.Rows, func(i, j int) bool {
		return d.Rows[i].Date.Before(d.Rows[j].Date)
	})
}

// Validate checks the ordering invariants after sorting: at least one row and
// no duplicate dates.
func (d *Dataset) Validate() error {
	if len(d.Rows) == 0 {
		return fmt.Errorf("empty dataset: %w", utils.ErrMalformedInput)
	}
	for i := 1; i < len(d.Rows); i++ {
		if d.Rows[i].Date.Equal(d.Rows[i-1].Date) {
			return fmt.Errorf("duplicate date %s: %w", utils.FormatDate(d.Rows[i].Date), utils.ErrMalformedInput)
		}
	}
	return nil
}

// VisitsColumn returns a copy of the visits column.
func (d *Dataset) VisitsColumn() []float64 {
	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.Visits
	}
	return values
}

// SpendColumn returns a copy of the ad-spend column.
func (d *Dataset) SpendColumn() []float64 {
	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.AdSpend
	}
	return values
}
