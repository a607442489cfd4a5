package regression

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

func TestRobustWeightBounds(t *testing.T) {
	X, y := linearFixture(12)
	// Mild noise everywhere plus one gross outlier.
	for i := range y {
		y[i] += float64(i%2) * 3
	}
	y[5] += 500

	seed, err := NewOLS().Fit(X, y)
	if err != nil {
		t.Fatalf("seed fit failed: %v", err)
	}

	result, err := NewRobust(DefaultHuberTuning).Fit(X, y, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minIdx := 0
	for i, w := range result.Weights {
		if w < 0 || w > 1 {
			t.Fatalf("weight %d out of bounds: %f", i, w)
		}
		if w < result.Weights[minIdx] {
			minIdx = i
		}
	}
	if minIdx != 5 {
		t.Fatalf("expected the outlier row to carry the smallest weight, got row %d", minIdx)
	}
	if result.Weights[5] >= 1 {
		t.Fatalf("expected outlier weight below 1, got %f", result.Weights[5])
	}
}

func TestRobustExactFitKeepsFullWeights(t *testing.T) {
	X, y := linearFixture(10)

	// A seed reproducing the response exactly leaves zero residuals: the
	// scale collapses, and the degenerate rule keeps every row at weight 1.
	seed := models.RegressionResult{Fitted: append([]float64(nil), y...)}

	result, err := NewRobust(0).Fit(X, y, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, w := range result.Weights {
		if w != 1 {
			t.Fatalf("zero-residual row %d must keep weight 1, got %f", i, w)
		}
	}
	want := []float64{1200, 3.8, 0}
	for i, c := range want {
		if math.Abs(result.Coefficients[i]-c) > 1e-6 {
			t.Fatalf("coefficient %d: expected %f, got %f", i, c, result.Coefficients[i])
		}
	}
}

func TestRobustAllWeightsZero(t *testing.T) {
	X, y := linearFixture(8)
	// Residuals identically 1: the MAD collapses to zero and no row is
	// exactly fitted, so every Huber weight is zero.
	seed := models.RegressionResult{Fitted: make([]float64, len(y))}
	for i := range y {
		seed.Fitted[i] = y[i] - 1
	}

	_, err := NewRobust(DefaultHuberTuning).Fit(X, y, seed)
	if !errors.Is(err, utils.ErrSingularMatrix) {
		t.Fatalf("expected ErrSingularMatrix, got %v", err)
	}
}

func TestRobustSeedMismatch(t *testing.T) {
	X, y := linearFixture(6)
	seed := models.RegressionResult{Fitted: []float64{1, 2}}

	if _, err := NewRobust(DefaultHuberTuning).Fit(X, y, seed); err == nil {
		t.Fatalf("expected error on fitted-length mismatch")
	}
}

func TestRobustDownweightsOutlierInfluence(t *testing.T) {
	X, y := linearFixture(14)
	y[3] += 800

	seed, err := NewOLS().Fit(X, y)
	if err != nil {
		t.Fatalf("seed fit failed: %v", err)
	}
	robust, err := NewRobust(DefaultHuberTuning).Fit(X, y, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The reweighted slope should sit closer to the uncontaminated 3.8
	// than the seed's.
	seedDrift := math.Abs(seed.Coefficients[1] - 3.8)
	robustDrift := math.Abs(robust.Coefficients[1] - 3.8)
	if robustDrift >= seedDrift {
		t.Fatalf("expected robust slope closer to 3.8: seed drift %g, robust drift %g", seedDrift, robustDrift)
	}
}

func TestHuberWeights(t *testing.T) {
	c := DefaultHuberTuning
	weights := huberWeights([]float64{0, 1, 10}, c)
	if weights[0] != 1 {
		t.Fatalf("zero residual must weigh 1, got %f", weights[0])
	}
	if weights[1] != 1 {
		t.Fatalf("residual inside threshold must weigh 1, got %f", weights[1])
	}
	if math.Abs(weights[2]-c/10) > 1e-12 {
		t.Fatalf("large residual: expected %f, got %f", c/10, weights[2])
	}

	degenerate := huberWeights([]float64{0, 2}, 0)
	if degenerate[0] != 1 || degenerate[1] != 0 {
		t.Fatalf("zero threshold: expected [1 0], got %v", degenerate)
	}
}

func TestMedianAbsDeviation(t *testing.T) {
	if got := medianAbsDeviation([]float64{1, 1, 1}); got != 0 {
		t.Fatalf("identical values: expected 0, got %f", got)
	}
	if got := medianAbsDeviation([]float64{1, 2, 3, 100}); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
}

func TestRobustTooFewRows(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 2, 0, 1, 3, 1})
	seed := models.RegressionResult{Fitted: []float64{5, 6}}
	_, err := NewRobust(DefaultHuberTuning).Fit(X, []float64{5, 6}, seed)
	if !errors.Is(err, utils.ErrSingularMatrix) {
		t.Fatalf("expected ErrSingularMatrix, got %v", err)
	}
}
