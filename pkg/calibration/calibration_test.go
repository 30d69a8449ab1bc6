package calibration

import (
	"errors"
	"testing"
)

func TestParsePeriodicityMonths(t *testing.T) {
	tests := []struct {
		name        string
		periodicity string
		want        int
		wantErr     bool
	}{
		{"plain number", "12", 12, false},
		{"with unit", "6 meses", 6, false},
		{"text prefix", "cada 3 meses", 3, false},
		{"annual phrasing", "12 meses (anual)", 12, false},
		{"single month", "1 mes", 1, false},
		{"no digits", "anual", 0, true},
		{"empty", "", 0, true},
		{"zero", "0 meses", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriodicityMonths(tt.periodicity)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePeriodicityMonths(%q) expected error, got %d", tt.periodicity, got)
				}
				if !errors.Is(err, ErrUnparseablePeriodicity) {
					t.Errorf("expected ErrUnparseablePeriodicity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriodicityMonths(%q) unexpected error: %v", tt.periodicity, err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriodicityMonths(%q) = %d, want %d", tt.periodicity, got, tt.want)
			}
		})
	}
}

func TestNextCalibration(t *testing.T) {
	tests := []struct {
		name        string
		lastDate    string
		periodicity string
		want        string
		wantErr     error
	}{
		{"simple add", "2024-03-10", "6 meses", "2024-09-10", nil},
		{"year rollover", "2024-10-15", "6 meses", "2025-04-15", nil},
		{"multi year", "2024-01-01", "24 meses", "2026-01-01", nil},
		// Jan 31 + 1 month clamps to the end of February, never rolls
		// into March.
		{"clamp to feb leap year", "2024-01-31", "1 mes", "2024-02-29", nil},
		{"clamp to feb common year", "2023-01-31", "1 mes", "2023-02-28", nil},
		{"clamp 31 to 30", "2024-03-31", "1 mes", "2024-04-30", nil},
		{"leap day plus year", "2024-02-29", "12 meses", "2025-02-28", nil},
		{"bad date", "not-a-date", "6 meses", "", ErrUnparseableDate},
		{"bad periodicity", "2024-03-10", "anual", "", ErrUnparseablePeriodicity},
		{"empty date", "", "6 meses", "", ErrUnparseableDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextCalibration(tt.lastDate, tt.periodicity)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NextCalibration(%q, %q) error = %v, want %v", tt.lastDate, tt.periodicity, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextCalibration(%q, %q) unexpected error: %v", tt.lastDate, tt.periodicity, err)
			}
			if got != tt.want {
				t.Errorf("NextCalibration(%q, %q) = %q, want %q", tt.lastDate, tt.periodicity, got, tt.want)
			}
		})
	}
}

func TestNextCalibrationDeterministic(t *testing.T) {
	first, err := NextCalibration("2024-05-31", "9 meses")
	if err != nil {
		t.Fatal(err)
	}
	second, err := NextCalibration("2024-05-31", "9 meses")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected deterministic result, got %q then %q", first, second)
	}
}
