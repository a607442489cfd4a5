package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/admetrica/spendlens/internal/utils"
)

func TestDatasetSortByDate(t *testing.T) {
	d1 := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	ds := &Dataset{Rows: []Observation{{Date: d3}, {Date: d1}, {Date: d2}}}
	ds.SortByDate()

	for i, want := range []time.Time{d1, d2, d3} {
		if !ds.Rows[i].Date.Equal(want) {
			t.Fatalf("row %d: expected %s, got %s", i, want, ds.Rows[i].Date)
		}
	}
	if err := ds.Validate(); err != nil {
		t.Fatalf("sorted unique dates must validate, got %v", err)
	}
}

func TestDatasetValidateDuplicateDate(t *testing.T) {
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	ds := &Dataset{Rows: []Observation{{Date: d}, {Date: d}}}

	if err := ds.Validate(); !errors.Is(err, utils.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestDatasetValidateEmpty(t *testing.T) {
	ds := &Dataset{}
	if err := ds.Validate(); !errors.Is(err, utils.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestObservationVisitsMissing(t *testing.T) {
	if (Observation{Visits: 100}).VisitsMissing() {
		t.Fatalf("present value reported missing")
	}
	if !(Observation{Visits: math.NaN()}).VisitsMissing() {
		t.Fatalf("NaN sentinel not reported missing")
	}
}

func TestDatasetColumns(t *testing.T) {
	ds := &Dataset{Rows: []Observation{
		{AdSpend: 10, Visits: 100},
		{AdSpend: 20, Visits: 200},
	}}

	visits := ds.VisitsColumn()
	spend := ds.SpendColumn()
	if visits[1] != 200 || spend[0] != 10 {
		t.Fatalf("unexpected column values: %v %v", visits, spend)
	}

	// Columns are copies, not views.
	visits[0] = -1
	if ds.Rows[0].Visits != 100 {
		t.Fatalf("column mutation leaked into the dataset")
	}
}
