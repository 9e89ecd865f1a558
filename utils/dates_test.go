package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-02-01")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseDateRejectsBadInput(t *testing.T) {
	for _, s := range []string{"", "01/02/2025", "2025-13-01", "2025-02-30", "yesterday"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDateOnlyNormalizesToMidnightUTC(t *testing.T) {
	in := time.Date(2025, time.June, 15, 23, 59, 58, 123, time.FixedZone("X", 3600))
	got := DateOnly(in)
	want := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOnly = %v, want %v", got, want)
	}
}

func TestSameDate(t *testing.T) {
	morning := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 15, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)

	if !SameDate(morning, evening) {
		t.Error("same calendar day should compare equal")
	}
	if SameDate(evening, nextDay) {
		t.Error("different days should not compare equal")
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if s := FormatDate(d); s != "2024-02-29" {
		t.Fatalf("FormatDate = %q", s)
	}
}
