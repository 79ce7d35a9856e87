package tools

import (
	"testing"
	"time"
)

var dateTestNow = time.Date(2025, 6, 15, 14, 45, 0, 0, time.UTC)

func TestParseDueDate_Today(t *testing.T) {
	got, err := parseDueDate("today", dateTestNow)
	if err != nil {
		t.Fatalf("parseDueDate failed: %v", err)
	}

	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got == nil || *got != want {
		t.Errorf("parseDueDate(today) = %v, want %d", got, want)
	}
}

func TestParseDueDate_Tomorrow(t *testing.T) {
	got, err := parseDueDate("tomorrow", dateTestNow)
	if err != nil {
		t.Fatalf("parseDueDate failed: %v", err)
	}

	want := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got == nil || *got != want {
		t.Errorf("parseDueDate(tomorrow) = %v, want %d", got, want)
	}
}

func TestParseDueDate_ISO(t *testing.T) {
	got, err := parseDueDate("2025-07-01", dateTestNow)
	if err != nil {
		t.Fatalf("parseDueDate failed: %v", err)
	}

	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got == nil || *got != want {
		t.Errorf("parseDueDate(2025-07-01) = %v, want %d", got, want)
	}
}

func TestParseDueDate_Empty(t *testing.T) {
	got, err := parseDueDate("", dateTestNow)
	if err != nil {
		t.Fatalf("parseDueDate failed: %v", err)
	}
	if got != nil {
		t.Errorf("empty input should mean no due date, got %d", *got)
	}
}

func TestParseDueDate_Invalid(t *testing.T) {
	for _, input := range []string{"next week", "07/01/2025", "garbage"} {
		if _, err := parseDueDate(input, dateTestNow); err == nil {
			t.Errorf("parseDueDate(%q) should fail", input)
		}
	}
}

func TestFormatDueDate(t *testing.T) {
	ms := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	if got := formatDueDate(&ms); got != "2025-07-01" {
		t.Errorf("formatDueDate = %q, want 2025-07-01", got)
	}
	if got := formatDueDate(nil); got != "" {
		t.Errorf("formatDueDate(nil) = %q, want empty", got)
	}
}
