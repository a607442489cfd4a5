package models

// RegressionResult summarises one linear fit of visits on the design matrix.
type RegressionResult struct {
	// Coefficients holds [intercept, ad-spend slope, weekend-effect slope].
	Coefficients []float64
	// Fitted holds the predicted visits value per row.
	Fitted []float64
	// Weights holds the per-row Huber weights for robust fits; nil for
	// the plain least-squares fit.
	Weights []float64
	R2      float64
	MAE     float64
	RMSE    float64
}

// Summary is the batch run output returned to the caller.
type Summary struct {
	Rows          int
	MissingVisits int
	ClampedSpend  int
	Outliers      int
	OLS           RegressionResult
	Robust        RegressionResult
}
