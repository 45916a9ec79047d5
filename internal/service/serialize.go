package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// formatDate renders a calendar date with no time component.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseDate accepts YYYY-MM-DD and returns UTC midnight of that day.
func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, validationError("%s is required", field)
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, validationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return d, nil
}

// money rounds to cents for the JSON surface.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
