package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// layouts tried, in order, for cells that are not strict YYYY-MM-DD
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// cell returns the trimmed value at idx, or "" when the column is missing or
// the row is short.
func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseRequiredNumber coerces a required numeric cell, stripping
// thousands-separator commas. On failure it appends a row-scoped error and
// reports ok=false so the caller skips the row. Negative values are clamped
// to zero on the way in.
func parseRequiredNumber(raw string, f Field, rowNum int, errs *[]string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*errs = append(*errs, fmt.Sprintf("Row %d: %s is required.", rowNum, f))
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("Row %d: %s is invalid.", rowNum, f))
		return 0, false
	}
	return maxf(v), true
}

// parseOptionalNumber is the silent variant: empty or unparseable yields nil.
func parseOptionalNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	v = maxf(v)
	return &v
}

// parseDateCell normalizes a calendar-date cell to YYYY-MM-DD, or "" when
// the cell is absent or unparseable.
func parseDateCell(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isoDate.MatchString(raw) {
		return raw
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}

// parseMonthCell normalizes a month cell to the first day of the month.
// Accepts YYYY-MM directly, plus anything parseDateCell accepts.
func parseMonthCell(raw string) string {
	raw = strings.TrimSpace(raw)
	if yearMonth.MatchString(raw) {
		return raw + "-01"
	}
	d := parseDateCell(raw)
	if d == "" {
		return ""
	}
	return d[:7] + "-01"
}

// endOfMonth returns the last calendar day of the month holding monthStart.
// UTC-anchored so month boundaries don't drift across timezones.
func endOfMonth(monthStart string) string {
	t, err := time.Parse(dateLayout, monthStart)
	if err != nil {
		return monthStart
	}
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Format(dateLayout)
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
