// internal/domain/analytics/daterange.go
package analytics

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// parseDate converts a "YYYY-MM-DD" string to a time at 00:00 local.
// Empty or malformed input yields nil: a bad filter disables that bound
// instead of failing the request.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// endOfDay returns the exclusive upper bound that covers all of t's day
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// applyRange filters a sales query by occurred_at. The hasta bound is
// inclusive of the entire final day regardless of stored time-of-day.
func applyRange(q *gorm.DB, desde, hasta *time.Time) *gorm.DB {
	if desde != nil {
		q = q.Where("occurred_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("occurred_at < ?", endOfDay(*hasta))
	}
	return q
}

// windowDays returns the day count of the inclusive window [desde, hasta].
// The dates are compared as calendar days, so a window spanning a DST
// transition (23 or 25 hour day) still counts whole days.
func windowDays(desde, hasta time.Time) int {
	d := time.Date(desde.Year(), desde.Month(), desde.Day(), 0, 0, 0, 0, time.UTC)
	h := time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 0, 0, 0, 0, time.UTC)
	return int(h.Sub(d).Hours()/24) + 1
}

// previousWindow returns the equal-length window ending the day before desde
func previousWindow(desde, hasta time.Time) (time.Time, time.Time) {
	days := windowDays(desde, hasta)
	return desde.AddDate(0, 0, -days), desde.AddDate(0, 0, -1)
}

// round2 rounds to 2 decimals, the precision of every monetary result
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
