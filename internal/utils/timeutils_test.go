package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2024-06-03", "2024/06/03", "06/03/2024", "2024-06-03T15:04:05Z"} {
		got, err := ParseDate(value)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", value, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %s, got %s", value, want, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty value")
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected error for unparseable value")
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2024-06-03" {
		t.Fatalf("expected 2024-06-03, got %s", got)
	}
}

func TestIsWeekend(t *testing.T) {
	if !IsWeekend(time.Saturday) || !IsWeekend(time.Sunday) {
		t.Fatalf("saturday and sunday are weekend days")
	}
	if IsWeekend(time.Wednesday) {
		t.Fatalf("wednesday is not a weekend day")
	}
}
