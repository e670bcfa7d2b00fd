package utils

import (
	"strings"
	"time"
)

const (
	layoutDate  = "2006-01-02"
	layoutMonth = "2006-01"
)

// ParseMonth parses a YYYY-MM filter value into year and month.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.ParseInLocation(layoutMonth, strings.TrimSpace(s), time.Local)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDayMonth renders the short D/M label used on report rows.
func FormatDayMonth(t time.Time) string {
	return t.In(time.Local).Format("2/1")
}
