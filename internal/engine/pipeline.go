// Package engine wires the cleaning, enrichment, outlier-detection, and
// regression stages into a single batch pipeline.
package engine

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/regression"
	"github.com/admetrica/spendlens/internal/transforms"
	"github.com/admetrica/spendlens/internal/utils"
)

// Pipeline orchestrates the batch analysis flow over one dataset.
type Pipeline struct {
	logger   *slog.Logger
	cleaner  *transforms.Cleaner
	features *transforms.FeatureEngineer
	detector *transforms.OutlierDetector
	ols      *regression.OLS
	robust   *regression.Robust
}

// NewPipeline constructs a pipeline; nil components get defaults.
func NewPipeline(
	logger *slog.Logger,
	cleaner *transforms.Cleaner,
	features *transforms.FeatureEngineer,
	detector *transforms.OutlierDetector,
	ols *regression.OLS,
	robust *regression.Robust,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = transforms.NewCleaner(logger)
	}
	if features == nil {
		features = transforms.NewFeatureEngineer(transforms.DefaultMAWindow)
	}
	if detector == nil {
		detector = transforms.NewOutlierDetector(transforms.DefaultOutlierThreshold)
	}
	if ols == nil {
		ols = regression.NewOLS()
	}
	if robust == nil {
		robust = regression.NewRobust(regression.DefaultHuberTuning)
	}

	return &Pipeline{
		logger:   logger,
		cleaner:  cleaner,
		features: features,
		detector: detector,
		ols:      ols,
		robust:   robust,
	}
}

// Run executes clean -> enrich -> detect -> fit -> robust refit, mutating the
// dataset in place and returning the run summary. The robust stage is seeded
// by the least-squares residuals, so a failed least-squares fit aborts before
// it.
func (p *Pipeline) Run(ds *models.Dataset) (models.Summary, error) {
	if ds == nil || ds.Len() == 0 {
		return models.Summary{}, fmt.Errorf("run: empty dataset: %w", utils.ErrMalformedInput)
	}

	stats, err := p.cleaner.Clean(ds)
	if err != nil {
		return models.Summary{}, fmt.Errorf("clean: %w", err)
	}
	p.logger.Debug("cleaned dataset",
		slog.Int("interpolated", stats.Interpolated),
		slog.Int("clamped", stats.Clamped))

	p.features.Enrich(ds)

	flags := p.detector.Detect(ds.VisitsColumn())
	outliers := 0
	for i, flagged := range flags {
		ds.Rows[i].IsOutlier = flagged
		if flagged {
			outliers++
		}
	}
	p.logger.Debug("flagged outliers", slog.Int("count", outliers))

	X, y := designMatrix(ds)
	olsResult, err := p.ols.Fit(X, y)
	if err != nil {
		return models.Summary{}, fmt.Errorf("fit: %w", err)
	}
	robustResult, err := p.robust.Fit(X, y, olsResult)
	if err != nil {
		return models.Summary{}, fmt.Errorf("robust fit: %w", err)
	}

	return models.Summary{
		Rows:          ds.Len(),
		MissingVisits: stats.Interpolated,
		ClampedSpend:  stats.Clamped,
		Outliers:      outliers,
		OLS:           olsResult,
		Robust:        robustResult,
	}, nil
}

// designMatrix assembles the regression inputs: an intercept column, the
// ad-spend column, and the weekend flag as 0/1.
func designMatrix(ds *models.Dataset) (*mat.Dense, []float64) {
	n := ds.Len()
	X := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i, row := range ds.Rows {
		weekend := 0.0
		if row.IsWeekend {
			weekend = 1.0
		}
		X.Set(i, 0, 1)
		X.Set(i, 1, row.AdSpend)
		X.Set(i, 2, weekend)
		y[i] = row.Visits
	}
	return X, y
}
