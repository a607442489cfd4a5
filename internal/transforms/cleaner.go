package transforms

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// CleanStats counts the corrections applied to a dataset.
type CleanStats struct {
	Interpolated int
	Clamped      int
}

// Cleaner fills missing visit values by linear interpolation along the date
// axis and repairs impossible negative spend.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner constructs a cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean mutates the dataset in place. Missing visits strictly between two
// known values are interpolated on the date axis; missing values before the
// first or after the last known value take that nearest known value. Negative
// ad spend is clamped to zero. Returns how many values were touched.
func (c *Cleaner) Clean(ds *models.Dataset) (CleanStats, error) {
	var stats CleanStats
	if ds == nil || ds.Len() == 0 {
		return stats, fmt.Errorf("empty dataset: %w", utils.ErrMalformedInput)
	}

	known := make([]int, 0, ds.Len())
	for i, row := range ds.Rows {
		if !row.VisitsMissing() {
			known = append(known, i)
		}
	}
	if len(known) == 0 {
		return stats, fmt.Errorf("all visit values missing: %w", utils.ErrInsufficientData)
	}

	for i := range ds.Rows {
		if !ds.Rows[i].VisitsMissing() {
			continue
		}
		ds.Rows[i].Visits = c.interpolate(ds, known, i)
		stats.Interpolated++
	}

	for i := range ds.Rows {
		if ds.Rows[i].AdSpend < 0 {
			c.logger.Debug("clamping negative spend",
				slog.String("date", utils.FormatDate(ds.Rows[i].Date)),
				slog.Float64("ad_spend", ds.Rows[i].AdSpend))
			ds.Rows[i].AdSpend = 0
			stats.Clamped++
		}
	}

	return stats, nil
}

// interpolate computes the visits value for row i from the nearest known
// neighbours in index slice known (sorted ascending).
func (c *Cleaner) interpolate(ds *models.Dataset, known []int, i int) float64 {
	// First known index strictly after i.
	next := sort.SearchInts(known, i)
	switch {
	case next == 0:
		// Before the first known value: flat extrapolation.
		return ds.Rows[known[0]].Visits
	case next == len(known):
		// After the last known value: flat extrapolation.
		return ds.Rows[known[len(known)-1]].Visits
	}

	lo := ds.Rows[known[next-1]]
	hi := ds.Rows[known[next]]
	span := hi.Date.Sub(lo.Date)
	if span <= 0 {
		return lo.Visits
	}
	frac := float64(ds.Rows[i].Date.Sub(lo.Date)) / float64(span)
	return lo.Visits + frac*(hi.Visits-lo.Visits)
}
