// Package regression fits ordinary and Huber-reweighted least squares models
// over the design matrix assembled by the pipeline.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// OLS fits ordinary least squares via a QR factorisation.
type OLS struct{}

// NewOLS constructs an ordinary least-squares fitter.
func NewOLS() *OLS {
	return &OLS{}
}

// Fit solves min ||X*beta - y||^2 and returns coefficients, fitted values,
// and goodness-of-fit metrics. The design matrix must have full column rank
// and at least as many rows as columns.
func (o *OLS) Fit(X *mat.Dense, y []float64) (models.RegressionResult, error) {
	n, k := X.Dims()
	if len(y) != n {
		return models.RegressionResult{}, fmt.Errorf("ols: %d rows in X but %d responses", n, len(y))
	}
	if n < k {
		return models.RegressionResult{}, fmt.Errorf("ols: %d rows for %d predictors: %w", n, k, utils.ErrSingularMatrix)
	}

	beta, err := solveLeastSquares(X, y)
	if err != nil {
		return models.RegressionResult{}, fmt.Errorf("ols: %w", err)
	}

	fitted := fittedValues(X, beta)
	result := models.RegressionResult{
		Coefficients: beta,
		Fitted:       fitted,
	}
	result.R2, result.MAE, result.RMSE = fitMetrics(y, fitted)
	return result, nil
}

// solveLeastSquares computes the minimum-norm least-squares solution via QR.
// Rank deficiency surfaces as ErrSingularMatrix.
func solveLeastSquares(X *mat.Dense, y []float64) ([]float64, error) {
	n, k := X.Dims()

	var qr mat.QR
	qr.Factorize(X)

	beta := mat.NewVecDense(k, nil)
	rhs := mat.NewVecDense(n, append([]float64(nil), y...))
	if err := qr.SolveVecTo(beta, false, rhs); err != nil {
		return nil, fmt.Errorf("qr solve: %v: %w", err, utils.ErrSingularMatrix)
	}

	out := make([]float64, k)
	copy(out, beta.RawVector().Data)
	return out, nil
}

func fittedValues(X *mat.Dense, beta []float64) []float64 {
	n, k := X.Dims()
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(X, mat.NewVecDense(k, beta))
	out := make([]float64, n)
	copy(out, fitted.RawVector().Data)
	return out
}

// fitMetrics computes R^2 = SSR/(SSR+SSE), MAE, and RMSE. R^2 is NaN when
// the response is constant and perfectly fitted (SSR+SSE == 0).
func fitMetrics(y, fitted []float64) (r2, mae, rmse float64) {
	n := len(y)
	meanY := stat.Mean(y, nil)

	var ssr, sse, absSum float64
	for i := 0; i < n; i++ {
		df := fitted[i] - meanY
		ssr += df * df
		r := y[i] - fitted[i]
		sse += r * r
		absSum += math.Abs(r)
	}

	if ssr+sse == 0 {
		r2 = math.NaN()
	} else {
		r2 = ssr / (ssr + sse)
	}
	mae = absSum / float64(n)
	rmse = math.Sqrt(sse / float64(n))
	return r2, mae, rmse
}
