// Package calibration computes external calibration due dates from a last
// calibration date and a free-text periodicity expression ("6 meses", "12").
//
// This package is the single source of truth for next-calibration dates. It
// is pure: no I/O, no clock access, fully deterministic.
package calibration

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the canonical calendar date format used for calibration dates.
const DateLayout = "2006-01-02"

var (
	ErrUnparseableDate        = errors.New("calibration date is not a valid calendar date")
	ErrUnparseablePeriodicity = errors.New("periodicity has no parseable month count")
)

var periodicityRegex = regexp.MustCompile(`\d+`)

// ParsePeriodicityMonths extracts the month count from a periodicity
// expression. The first run of digits wins, so "6 meses", "cada 6 meses" and
// "6" all parse to 6. Zero is not a valid periodicity.
func ParsePeriodicityMonths(periodicity string) (int, error) {
	match := periodicityRegex.FindString(periodicity)
	if match == "" {
		return 0, ErrUnparseablePeriodicity
	}

	months, err := strconv.Atoi(match)
	if err != nil || months <= 0 {
		return 0, ErrUnparseablePeriodicity
	}

	return months, nil
}

// NextCalibration returns the date the next external calibration is due, as
// lastDate plus the periodicity's month count. Month arithmetic clamps to the
// end of the target month: 2024-01-31 plus one month is 2024-02-29.
//
// Callers must treat an error as "leave the stored due date unchanged",
// never as "clear it".
func NextCalibration(lastDate, periodicity string) (string, error) {
	months, err := ParsePeriodicityMonths(periodicity)
	if err != nil {
		return "", err
	}

	last, err := time.Parse(DateLayout, lastDate)
	if err != nil {
		return "", ErrUnparseableDate
	}

	return addMonthsClamped(last, months).Format(DateLayout), nil
}

// addMonthsClamped adds months calendar-correctly. Unlike time.AddDate, a
// day-of-month past the target month's end clamps instead of rolling over.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	totalMonths := int(month) - 1 + months
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)

	if day > daysInMonth(targetYear, targetMonth) {
		day = daysInMonth(targetYear, targetMonth)
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
