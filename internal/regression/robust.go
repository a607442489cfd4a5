package regression

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// DefaultHuberTuning is the Huber threshold in multiples of the robust
// residual scale; 1.345 gives 95% efficiency under normal errors.
const DefaultHuberTuning = 1.345

// madScale rescales the residual MAD into a standard-deviation estimate.
const madScale = 1.4826

// Robust refits the model with Huber weights derived from the residuals of a
// seed fit. It performs exactly one reweighting pass, not an
// iterate-to-convergence loop.
type Robust struct {
	tuning float64
}

// NewRobust constructs a robust fitter; non-positive tuning falls back to the
// default.
func NewRobust(tuning float64) *Robust {
	if tuning <= 0 {
		tuning = DefaultHuberTuning
	}
	return &Robust{tuning: tuning}
}

// Fit downweights large residuals from the seed fit and solves the weighted
// least-squares problem. The result carries the weight vector alongside the
// usual coefficients and metrics.
func (r *Robust) Fit(X *mat.Dense, y []float64, seed models.RegressionResult) (models.RegressionResult, error) {
	n, k := X.Dims()
	if len(y) != n {
		return models.RegressionResult{}, fmt.Errorf("robust: %d rows in X but %d responses", n, len(y))
	}
	if len(seed.Fitted) != n {
		return models.RegressionResult{}, fmt.Errorf("robust: seed fit has %d fitted values for %d rows", len(seed.Fitted), n)
	}
	if n < k {
		return models.RegressionResult{}, fmt.Errorf("robust: %d rows for %d predictors: %w", n, k, utils.ErrSingularMatrix)
	}

	resid := make([]float64, n)
	for i := range resid {
		resid[i] = y[i] - seed.Fitted[i]
	}

	c := r.tuning * madScale * medianAbsDeviation(resid)
	weights := huberWeights(resid, c)

	allZero := true
	for _, w := range weights {
		if w > 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return models.RegressionResult{}, fmt.Errorf("robust: all observation weights are zero: %w", utils.ErrSingularMatrix)
	}

	// Row-scaling by sqrt(w) turns the weighted problem into an ordinary
	// least-squares solve on the same QR path as the seed fit.
	Xw := mat.NewDense(n, k, nil)
	yw := make([]float64, n)
	for i := 0; i < n; i++ {
		s := math.Sqrt(weights[i])
		for j := 0; j < k; j++ {
			Xw.Set(i, j, s*X.At(i, j))
		}
		yw[i] = s * y[i]
	}

	beta, err := solveLeastSquares(Xw, yw)
	if err != nil {
		return models.RegressionResult{}, fmt.Errorf("robust: %w", err)
	}

	fitted := fittedValues(X, beta)
	result := models.RegressionResult{
		Coefficients: beta,
		Fitted:       fitted,
		Weights:      weights,
	}
	result.R2, result.MAE, result.RMSE = fitMetrics(y, fitted)
	return result, nil
}

// huberWeights maps residuals to weights in [0, 1]: one inside the threshold
// c, shrinking as c/|resid| beyond it. A zero threshold degenerates to
// keeping only exactly-fitted rows.
func huberWeights(resid []float64, c float64) []float64 {
	weights := make([]float64, len(resid))
	for i, res := range resid {
		a := math.Abs(res)
		switch {
		case c == 0:
			if a == 0 {
				weights[i] = 1
			}
		case a <= c:
			weights[i] = 1
		default:
			weights[i] = c / a
		}
	}
	return weights
}

// medianAbsDeviation returns median(|v - median(v)|).
func medianAbsDeviation(values []float64) float64 {
	m := medianOf(values)
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - m)
	}
	return medianOf(devs)
}

func medianOf(values []float64) float64 {
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
