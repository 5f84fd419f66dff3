package service

import (
	"time"

	"github.com/hostboard/hostboard/internal/model"
)

// ParseDate parses an ISO yyyy-MM-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.UTC)
}

// DatesInRange expands a half-open [checkIn, checkOut) range into ISO date
// strings, one per night. The check-out date itself is excluded. An empty or
// inverted range yields nil.
func DatesInRange(checkIn, checkOut time.Time) []string {
	var dates []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates
}
