package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// Writer renders the enriched dataset back to CSV, base columns plus the
// derived ones.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write creates path and streams the dataset into it.
func (w *Writer) Write(path string, ds *models.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	if err := w.WriteTo(file, ds); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("wrote enriched table", slog.String("path", path), slog.Int("rows", ds.Len()))
	return nil
}

// WriteTo renders the dataset as CSV to out.
func (w *Writer) WriteTo(out io.Writer, ds *models.Dataset) error {
	n := ds.Len()
	dates := make([]string, n)
	spend := make([]float64, n)
	visits := make([]float64, n)
	dayOfWeek := make([]string, n)
	weekend := make([]bool, n)
	visitsMA := make([]float64, n)
	spendMA := make([]float64, n)
	outlier := make([]bool, n)

	for i, row := range ds.Rows {
		dates[i] = utils.FormatDate(row.Date)
		spend[i] = row.AdSpend
		visits[i] = row.Visits
		dayOfWeek[i] = row.DayOfWeek.String()
		weekend[i] = row.IsWeekend
		visitsMA[i] = row.VisitsMA7
		spendMA[i] = row.SpendMA7
		outlier[i] = row.IsOutlier
	}

	df := dataframe.New(
		series.New(dates, series.String, "date"),
		series.New(spend, series.Float, "ad_spend"),
		series.New(visits, series.Float, "visits"),
		series.New(dayOfWeek, series.String, "day_of_week"),
		series.New(weekend, series.Bool, "is_weekend"),
		series.New(visitsMA, series.Float, "visits_ma7"),
		series.New(spendMA, series.Float, "spend_ma7"),
		series.New(outlier, series.Bool, "is_outlier"),
	)
	if df.Err != nil {
		return fmt.Errorf("build output frame: %w", df.Err)
	}

	return df.WriteCSV(out)
}
