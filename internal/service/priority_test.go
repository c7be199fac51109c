package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func float64Ptr(f float64) *float64 { return &f }

func TestScoreDueDateThresholds(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dueAt *time.Time
		want  int
	}{
		{"no due date", nil, 0},
		{"overdue by a day", timePtr(now.Add(-24 * time.Hour)), 12},
		{"overdue by an hour", timePtr(now.Add(-time.Hour)), 12},
		{"due in 12 hours", timePtr(now.Add(12 * time.Hour)), 10},
		{"due in exactly one day", timePtr(now.Add(24 * time.Hour)), 8},
		{"due in two days", timePtr(now.Add(48 * time.Hour)), 8},
		{"due in five days", timePtr(now.Add(5 * 24 * time.Hour)), 5},
		{"due in exactly seven days", timePtr(now.Add(7 * 24 * time.Hour)), 2},
		{"due in a month", timePtr(now.Add(30 * 24 * time.Hour)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.dueAt, nil, now))
		})
	}
}

func TestScorePointsThresholds(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		points *float64
		want   int
	}{
		{"no points", nil, 0},
		{"zero points", float64Ptr(0), 0},
		{"five points", float64Ptr(5), 1},
		{"ten points", float64Ptr(10), 1},
		{"fifteen points", float64Ptr(15), 2},
		{"fifty points", float64Ptr(50), 3},
		{"seventy points", float64Ptr(70), 4},
		{"hundred points", float64Ptr(100), 4},
		{"hundred fifty points", float64Ptr(150), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(nil, tt.points, now))
		})
	}
}

func TestScoreSumsContributions(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	// Due in 12 hours (10) with 90 points (4).
	due := now.Add(12 * time.Hour)
	assert.Equal(t, 14, Score(&due, float64Ptr(90), now))

	// Overdue (12) with 150 points (5) hits the natural maximum.
	overdue := now.Add(-time.Hour)
	assert.Equal(t, 17, Score(&overdue, float64Ptr(150), now))
}

func TestScoreIsPure(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(36 * time.Hour)
	points := float64Ptr(42)

	first := Score(&due, points, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(&due, points, now))
	}
}

func TestClassifyBucket(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dueAt *time.Time
		want  models.Bucket
	}{
		{"no due date", nil, models.BucketUpcoming},
		{"past due", timePtr(now.Add(-time.Minute)), models.BucketPastDue},
		{"due in an hour", timePtr(now.Add(time.Hour)), models.BucketDueToday},
		{"due in 23 hours", timePtr(now.Add(23 * time.Hour)), models.BucketDueToday},
		{"due in 25 hours", timePtr(now.Add(25 * time.Hour)), models.BucketDueThisWeek},
		{"due in six days", timePtr(now.Add(6 * 24 * time.Hour)), models.BucketDueThisWeek},
		{"due in exactly seven days", timePtr(now.Add(7 * 24 * time.Hour)), models.BucketUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBucket(tt.dueAt, now))
		})
	}
}

// Both the scorer and the classifier must treat dueAt < now as past due so
// an assignment never scores as overdue while bucketing as due_today.
func TestScoreAndClassifyAgreeAtPastDueBoundary(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	justPast := now.Add(-time.Second)
	assert.Equal(t, 12, Score(&justPast, nil, now))
	assert.Equal(t, models.BucketPastDue, ClassifyBucket(&justPast, now))

	exactlyNow := now
	assert.Equal(t, 10, Score(&exactlyNow, nil, now))
	assert.Equal(t, models.BucketDueToday, ClassifyBucket(&exactlyNow, now))
}
