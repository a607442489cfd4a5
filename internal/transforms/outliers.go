package transforms

import (
	"math"
	"sort"
)

// madConsistency rescales the MAD into a consistent estimator of the
// standard deviation under normality.
const madConsistency = 1.4826

// DefaultOutlierThreshold is the flagging threshold in multiples of the
// scaled MAD.
const DefaultOutlierThreshold = 3.0

// OutlierDetector flags anomalous values with a median-absolute-deviation
// rule.
type OutlierDetector struct {
	threshold float64
}

// NewOutlierDetector constructs a detector; non-positive thresholds fall
// back to the default.
func NewOutlierDetector(threshold float64) *OutlierDetector {
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}
	return &OutlierDetector{threshold: threshold}
}

// Detect returns one flag per input value, in order. A value is flagged when
// its absolute deviation from the median exceeds threshold times the scaled
// MAD. When the MAD is zero (more than half the values identical) only values
// exactly equal to the median escape flagging.
func (d *OutlierDetector) Detect(values []float64) []bool {
	flags := make([]bool, len(values))
	if len(values) == 0 {
		return flags
	}

	m := median(values)
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - m)
	}
	mad := median(devs)

	if mad == 0 {
		for i, v := range values {
			flags[i] = v != m
		}
		return flags
	}

	limit := d.threshold * madConsistency * mad
	for i := range values {
		flags[i] = devs[i] > limit
	}
	return flags
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
