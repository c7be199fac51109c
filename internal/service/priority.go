package service

import (
	"math"
	"time"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
)

// Score computes an assignment's urgency from its due date and point value.
// It is pure: identical inputs (including now) always yield the same score.
// The due-date and points contributions are independent and summed, giving
// a natural range of 0-17 with no clamping.
func Score(dueAt *time.Time, pointsPossible *float64, now time.Time) int {
	return dueDateScore(dueAt, now) + pointsScore(pointsPossible)
}

func dueDateScore(dueAt *time.Time, now time.Time) int {
	if dueAt == nil {
		return 0
	}
	days := daysUntil(*dueAt, now)
	switch {
	case days < 0:
		return 12
	case days < 1:
		return 10
	case days < 3:
		return 8
	case days < 7:
		return 5
	default:
		return 2
	}
}

func pointsScore(pointsPossible *float64) int {
	if pointsPossible == nil || *pointsPossible == 0 {
		return 0
	}
	points := *pointsPossible
	switch {
	case points > 100:
		return 5
	case points > 50:
		return 4
	case points > 20:
		return 3
	case points > 10:
		return 2
	default:
		return 1
	}
}

// daysUntil returns whole days between due and now, flooring toward
// negative infinity so an assignment due 12 hours ago counts as day -1.
func daysUntil(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}

// ClassifyBucket maps a due date onto the fixed temporal buckets. It shares
// the dueAt < now past-due test with Score so both agree at the boundary.
func ClassifyBucket(dueAt *time.Time, now time.Time) models.Bucket {
	if dueAt == nil {
		return models.BucketUpcoming
	}
	until := dueAt.Sub(now)
	switch {
	case until < 0:
		return models.BucketPastDue
	case until < 24*time.Hour:
		return models.BucketDueToday
	case until < 7*24*time.Hour:
		return models.BucketDueThisWeek
	default:
		return models.BucketUpcoming
	}
}
