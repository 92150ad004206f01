// Package ranking holds the time-decay scores used to order and display posts.
package ranking

import (
	"math"
	"time"
)

const (
	listGravity    = 1.5
	displayGravity = 1.8
	displayOffset  = 2.0
)

// AgeHours returns the fractional hours between createdAt and now, clamped at
// zero for timestamps in the future.
func AgeHours(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// ListRank is the decay used when ranking posts for a listing:
// score / max(age_hours, 1)^1.5. Posts younger than an hour are not boosted.
func ListRank(score int, createdAt, now time.Time) float64 {
	age := math.Max(AgeHours(createdAt, now), 1.0)
	return float64(score) / math.Pow(age, listGravity)
}

// DisplayHot is the value shown next to a post after a vote:
// score / (age_hours + 2)^1.8.
func DisplayHot(score int, createdAt, now time.Time) float64 {
	return float64(score) / math.Pow(AgeHours(createdAt, now)+displayOffset, displayGravity)
}
