package domain

import (
	"fmt"
	"strings"
	"time"
)

const WeekLayout = "2006-01-02"

// WeekStart returns the ISO week start (Monday 00:00 UTC) of t's calendar
// day in UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
}

// ParseWeek parses a YYYY-MM-DD date and normalises it to its week start.
func ParseWeek(s string) (time.Time, error) {
	t, err := time.Parse(WeekLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q, expected YYYY-MM-DD: %w", s, err)
	}
	return WeekStart(t), nil
}

// CIR is ad spend over revenue, 0 when there is no revenue.
func CIR(revenue, adSpend float64) float64 {
	if revenue == 0 {
		return 0
	}
	return adSpend / revenue
}

func Summarize(rec WeeklyRecord) WeeklySummary {
	return WeeklySummary{WeeklyRecord: rec, CIR: CIR(rec.Revenue, rec.AdSpend)}
}
