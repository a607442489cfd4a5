package transforms

import (
	"gonum.org/v1/gonum/stat"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// DefaultMAWindow is the trailing moving-average window in days.
const DefaultMAWindow = 7

// FeatureEngineer derives calendar and moving-average columns from the base
// date, spend, and visits columns.
type FeatureEngineer struct {
	window int
}

// NewFeatureEngineer constructs a feature engineer with the given trailing
// window size; non-positive values fall back to the default.
func NewFeatureEngineer(window int) *FeatureEngineer {
	if window <= 0 {
		window = DefaultMAWindow
	}
	return &FeatureEngineer{window: window}
}

// Enrich fills the derived columns in place: day of week, weekend flag, and
// trailing moving averages of visits and spend. Windows at the start of the
// series use all rows available so far rather than padding.
func (f *FeatureEngineer) Enrich(ds *models.Dataset) {
	if ds == nil || ds.Len() == 0 {
		return
	}

	for i := range ds.Rows {
		ds.Rows[i].DayOfWeek = ds.Rows[i].Date.Weekday()
		ds.Rows[i].IsWeekend = utils.IsWeekend(ds.Rows[i].DayOfWeek)
	}

	visits := ds.VisitsColumn()
	spend := ds.SpendColumn()
	for i := range ds.Rows {
		start := i - f.window + 1
		if start < 0 {
			start = 0
		}
		ds.Rows[i].VisitsMA7 = stat.Mean(visits[start:i+1], nil)
		ds.Rows[i].SpendMA7 = stat.Mean(spend[start:i+1], nil)
	}
}
