package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/admetrica/spendlens/internal/models"
)

func TestWriterRendersEnrichedTable(t *testing.T) {
	ds := &models.Dataset{Rows: []models.Observation{
		{
			Date:      time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
			AdSpend:   120,
			Visits:    1650,
			DayOfWeek: time.Saturday,
			IsWeekend: true,
			VisitsMA7: 1650,
			SpendMA7:  120,
			IsOutlier: false,
		},
		{
			Date:      time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
			AdSpend:   90,
			Visits:    2400,
			DayOfWeek: time.Sunday,
			IsWeekend: true,
			VisitsMA7: 2025,
			SpendMA7:  105,
			IsOutlier: true,
		},
	}}

	var buf bytes.Buffer
	if err := NewWriter(nil).WriteTo(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	wantHeader := "date,ad_spend,visits,day_of_week,is_weekend,visits_ma7,spend_ma7,is_outlier"
	if lines[0] != wantHeader {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-06-08,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "Sunday") || !strings.Contains(lines[2], "true") {
		t.Fatalf("expected derived columns rendered, got: %s", lines[2])
	}
}
