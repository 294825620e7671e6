package util

import (
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ValidateMonth checks a year/month pair coming from a request
func ValidateMonth(year, month int) error {
	if month < 1 || month > 12 {
		return domain.NewFieldError("month", domain.ErrInvalidMonth)
	}
	if year < 1900 || year > 9999 {
		return domain.NewFieldError("year", domain.ErrInvalidDate)
	}
	return nil
}

// MonthRange returns the first and last day of a month as UTC dates.
// Both bounds are inclusive, matching the DATE comparisons in queries.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of next month is the last day of this one
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// MonthsBack returns the year and month n months before the given month
func MonthsBack(year, month, n int) (int, int) {
	t := time.Date(year, time.Month(month)-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month())
}

// ParseDate parses a YYYY-MM-DD string into a UTC date
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
