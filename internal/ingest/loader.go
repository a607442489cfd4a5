// Package ingest is the file boundary of the pipeline: it loads the raw
// tabular source into a validated dataset and writes the enriched table back
// out.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/admetrica/spendlens/internal/models"
	"github.com/admetrica/spendlens/internal/utils"
)

// Default column names in the input table.
const (
	DefaultDateColumn   = "date"
	DefaultSpendColumn  = "ad_spend"
	DefaultVisitsColumn = "visits"
)

// Loader reads the raw CSV source into a dataset. Missing visits become NaN
// sentinels for the cleaner; anything else non-coercible is a hard error.
type Loader struct {
	logger       *slog.Logger
	dateColumn   string
	spendColumn  string
	visitsColumn string
}

// NewLoader constructs a loader; empty column names get the defaults.
func NewLoader(logger *slog.Logger, dateColumn, spendColumn, visitsColumn string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if dateColumn == "" {
		dateColumn = DefaultDateColumn
	}
	if spendColumn == "" {
		spendColumn = DefaultSpendColumn
	}
	if visitsColumn == "" {
		visitsColumn = DefaultVisitsColumn
	}
	return &Loader{
		logger:       logger,
		dateColumn:   dateColumn,
		spendColumn:  spendColumn,
		visitsColumn: visitsColumn,
	}
}

// Load reads and validates the CSV file at path.
func (l *Loader) Load(path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	ds, err := l.LoadReader(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// LoadReader parses CSV content into a dataset sorted ascending by date.
func (l *Loader) LoadReader(r io.Reader) (*models.Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			l.spendColumn: series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %v: %w", df.Err, utils.ErrMalformedInput)
	}

	names := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		names[name] = true
	}
	for _, required := range []string{l.dateColumn, l.spendColumn, l.visitsColumn} {
		if !names[required] {
			return nil, fmt.Errorf("missing column %q: %w", required, utils.ErrMalformedInput)
		}
	}

	dates := df.Col(l.dateColumn).Records()
	spend := df.Col(l.spendColumn).Float()
	visits := df.Col(l.visitsColumn).Records()

	ds := &models.Dataset{Rows: make([]models.Observation, 0, df.Nrow())}
	for i := 0; i < df.Nrow(); i++ {
		date, err := utils.ParseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", i+1, err, utils.ErrMalformedInput)
		}
		if math.IsNaN(spend[i]) {
			return nil, fmt.Errorf("row %d: %s is not numeric: %w", i+1, l.spendColumn, utils.ErrMalformedInput)
		}
		v, err := parseVisits(visits[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %s %w", i+1, l.visitsColumn, err)
		}
		ds.Rows = append(ds.Rows, models.Observation{
			Date:    date,
			AdSpend: spend[i],
			Visits:  v, // NaN marks a missing value
		})
	}

	ds.SortByDate()
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	missing := 0
	for _, row := range ds.Rows {
		if row.VisitsMissing() {
			missing++
		}
	}
	l.logger.Debug("loaded dataset",
		slog.Int("rows", ds.Len()),
		slog.Int("missing_visits", missing))

	return ds, nil
}

// parseVisits distinguishes a genuinely absent cell from a garbage one. Empty
// cells and the usual NA spellings become the NaN missing sentinel; any other
// token that does not parse as a number is malformed input.
func parseVisits(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric: %w", raw, utils.ErrMalformedInput)
	}
	return v, nil
}
