// Package services hosts the batch facade tying ingest, pipeline, and export
// together.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/admetrica/spendlens/internal/engine"
	"github.com/admetrica/spendlens/internal/ingest"
	"github.com/admetrica/spendlens/internal/metrics"
	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// AnalysisService runs one full load -> analyse -> export cycle.
type AnalysisService struct {
	logger     *slog.Logger
	loader     *ingest.Loader
	writer     *ingest.Writer
	pipeline   *engine.Pipeline
	inputPath  string
	outputPath string
}

// NewAnalysisService constructs the batch facade. An empty output path
// disables the enriched-table export.
func NewAnalysisService(
	logger *slog.Logger,
	loader *ingest.Loader,
	writer *ingest.Writer,
	pipeline *engine.Pipeline,
	inputPath, outputPath string,
) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:     logger,
		loader:     loader,
		writer:     writer,
		pipeline:   pipeline,
		inputPath:  inputPath,
		outputPath: outputPath,
	}
}

// Run executes the batch and returns the summary. Any stage error is a hard
// stop; no partial results are emitted.
func (s *AnalysisService) Run(ctx context.Context) (models.Summary, error) {
	if err := ctx.Err(); err != nil {
		return models.Summary{}, err
	}
	if s.loader == nil || s.pipeline == nil {
		return models.Summary{}, utils.NewAppError("analysis.run", "service not fully configured", nil)
	}

	ds, err := s.loader.Load(s.inputPath)
	if err != nil {
		metrics.ObserveRun(0, metrics.OutcomeError)
		return models.Summary{}, utils.NewAppError("analysis.run", "load input", err)
	}

	start := time.Now()
	summary, err := s.pipeline.Run(ds)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveRun(duration, metrics.OutcomeError)
		s.logger.Error("pipeline run failed", slog.Any("error", err))
		return models.Summary{}, utils.NewAppError("analysis.run", "pipeline", err)
	}
	if s.outputPath != "" && s.writer != nil {
		if err := s.writer.Write(s.outputPath, ds); err != nil {
			metrics.ObserveRun(duration, metrics.OutcomeError)
			return models.Summary{}, utils.NewAppError("analysis.run", "write output", err)
		}
	}

	// The success outcome covers the whole batch, export included.
	metrics.ObserveRun(duration, metrics.OutcomeSuccess)
	metrics.ObserveDataset(summary.MissingVisits, summary.Outliers)

	s.logger.Info("analysis complete",
		slog.Int("rows", summary.Rows),
		slog.Int("missing_visits", summary.MissingVisits),
		slog.Int("outliers", summary.Outliers),
		slog.Duration("duration", duration))

	return summary, nil
}

// FormatSummary renders the run summary as the printed report block.
func FormatSummary(s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows:            %d\n", s.Rows)
	fmt.Fprintf(&b, "missing visits:  %d\n", s.MissingVisits)
	fmt.Fprintf(&b, "clamped spend:   %d\n", s.ClampedSpend)
	fmt.Fprintf(&b, "outliers:        %d\n", s.Outliers)
	writeFit(&b, "ols", s.OLS)
	writeFit(&b, "robust", s.Robust)
	return b.String()
}

func writeFit(b *strings.Builder, name string, r models.RegressionResult) {
	fmt.Fprintf(b, "%s coefficients: [", name)
	for i, c := range r.Coefficients {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%.4f", c)
	}
	b.WriteString("]\n")
	fmt.Fprintf(b, "%s metrics:      R2=%s MAE=%.4f RMSE=%.4f\n", name, formatR2(r.R2), r.MAE, r.RMSE)
}

func formatR2(r2 float64) string {
	if math.IsNaN(r2) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", r2)
}
