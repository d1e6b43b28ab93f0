// Package expiry computes how close a product is to its expiry date.
// Every screen and job derives status from these two functions so the
// arithmetic never drifts between call sites.
package expiry

import (
	"math"
	"time"
)

// Status classifies a product relative to its expiry date.
type Status string

const (
	StatusGood         Status = "Good"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusExpired      Status = "Expired"
)

// SoonWindowDays is the classification window for StatusExpiringSoon.
const SoonWindowDays = 7

// DaysLeft returns the number of whole calendar days remaining until the
// expiry date, rounding up: any remaining time-of-day counts as a full
// extra day. Results are zero or negative once the expiry has passed.
func DaysLeft(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// Classify buckets an expiry date relative to now:
// Expired when daysLeft <= 0, Expiring Soon when 0 < daysLeft <= 7,
// Good otherwise.
func Classify(expiry, now time.Time) Status {
	d := DaysLeft(expiry, now)
	switch {
	case d <= 0:
		return StatusExpired
	case d <= SoonWindowDays:
		return StatusExpiringSoon
	default:
		return StatusGood
	}
}
