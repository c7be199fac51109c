package models

import "time"

// AssignmentCompletion holds the per-assignment completion rate over a
// course's student submissions.
type AssignmentCompletion struct {
	AssignmentName string  `json:"assignment_name"`
	CompletionRate float64 `json:"completion_rate"`
}

// GradeSpread aggregates score extremes and mean for one assignment.
type GradeSpread struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// CourseAnalytics is the visualization payload for one course.
type CourseAnalytics struct {
	AssignmentCompletion []AssignmentCompletion `json:"assignment_completion"`
	GradeDistribution    map[string]GradeSpread `json:"grade_distribution"`
	TimeSpent            []float64              `json:"time_spent"`
}

// CourseStatistics carries simple reductions over a course's assignments
// and submissions.
type CourseStatistics struct {
	CourseID        int64   `json:"course_id"`
	AssignmentCount int     `json:"assignment_count"`
	SubmittedCount  int     `json:"submitted_count"`
	GradedCount     int     `json:"graded_count"`
	AverageScore    float64 `json:"average_score"`
	UpcomingCount   int     `json:"upcoming_count"`
	PastDueCount    int     `json:"past_due_count"`
}

// SystemMetrics is a lightweight snapshot of process-level counters for the
// metrics endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	UpstreamCallCount        uint64    `json:"upstream_call_count"`
	AverageUpstreamMs        float64   `json:"average_upstream_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
