package util

import (
	"errors"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantEnd time.Time
	}{
		{"31-day month", 2026, 1, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"30-day month", 2026, 4, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)},
		{"february", 2026, 2, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"leap february", 2028, 2, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"december", 2026, 12, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			wantStart := time.Date(tt.year, time.Month(tt.month), 1, 0, 0, 0, 0, time.UTC)
			if !start.Equal(wantStart) {
				t.Errorf("start = %v, want %v", start, wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestMonthsBack(t *testing.T) {
	tests := []struct {
		year, month, n      int
		wantYear, wantMonth int
	}{
		{2026, 6, 0, 2026, 6},
		{2026, 6, 5, 2026, 1},
		{2026, 3, 5, 2025, 10},
		{2026, 1, 24, 2024, 1},
	}

	for _, tt := range tests {
		gotYear, gotMonth := MonthsBack(tt.year, tt.month, tt.n)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("MonthsBack(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, tt.n, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth(2026, 3); err != nil {
		t.Errorf("expected valid month, got %v", err)
	}
	for _, month := range []int{0, 13, -1} {
		err := ValidateMonth(2026, month)
		if !errors.Is(err, domain.ErrInvalidMonth) {
			t.Errorf("ValidateMonth(2026, %d) = %v, want ErrInvalidMonth", month, err)
		}
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ValidateMonth(2026, %d) should be invalid input", month)
		}
	}
	if err := ValidateMonth(0, 5); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for year 0, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
