package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
)

type analyticsGateway interface {
	Assignments(ctx context.Context, token string, courseID int64, includeSubmission bool) ([]upstream.Assignment, error)
	StudentSubmissions(ctx context.Context, token string, courseID int64) ([]upstream.StudentSubmission, error)
}

// AnalyticsServiceConfig tunes analytics caching.
type AnalyticsServiceConfig struct {
	CacheTTL time.Duration
}

// AnalyticsService reduces a course's assignments and submissions into
// visualization payloads and summary statistics.
type AnalyticsService struct {
	canvas analyticsGateway
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    AnalyticsServiceConfig
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(canvas analyticsGateway, cache *CacheService, logger *zap.Logger, cfg AnalyticsServiceConfig) *AnalyticsService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{canvas: canvas, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// CourseAnalytics builds the per-assignment completion and grade
// distribution payload for one course. The boolean result reports cache
// utilisation.
func (s *AnalyticsService) CourseAnalytics(ctx context.Context, token string, courseID int64) (*models.CourseAnalytics, bool, error) {
	cacheKey := fmt.Sprintf("analytics:%d", courseID)
	var cached models.CourseAnalytics
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	assignments, submissions, err := s.fetch(ctx, token, courseID)
	if err != nil {
		return nil, false, err
	}

	byAssignment := groupSubmissions(submissions)

	analytics := &models.CourseAnalytics{
		AssignmentCompletion: make([]models.AssignmentCompletion, 0, len(assignments)),
		GradeDistribution:    make(map[string]models.GradeSpread),
		TimeSpent:            []float64{},
	}

	for _, assignment := range assignments {
		rows := byAssignment[assignment.ID]

		submitted := 0
		var scores []float64
		for _, row := range rows {
			if row.WorkflowState == "submitted" {
				submitted++
			}
			if row.Score != nil {
				scores = append(scores, *row.Score)
			}
		}

		analytics.AssignmentCompletion = append(analytics.AssignmentCompletion, models.AssignmentCompletion{
			AssignmentName: assignment.Name,
			CompletionRate: float64(submitted) / float64(maxInt(1, len(rows))),
		})

		if len(scores) > 0 {
			analytics.GradeDistribution[assignment.Name] = spread(scores)
		}
	}

	if err := s.cache.Set(ctx, cacheKey, analytics, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("analytics_cache_write_failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return analytics, false, nil
}

// CourseStatistics reduces the same upstream data into headline counters.
func (s *AnalyticsService) CourseStatistics(ctx context.Context, token string, courseID int64) (*models.CourseStatistics, error) {
	assignments, submissions, err := s.fetch(ctx, token, courseID)
	if err != nil {
		return nil, err
	}

	stats := &models.CourseStatistics{
		CourseID:        courseID,
		AssignmentCount: len(assignments),
	}

	now := s.now()
	for _, assignment := range assignments {
		switch ClassifyBucket(assignment.DueAt, now) {
		case models.BucketPastDue:
			stats.PastDueCount++
		default:
			stats.UpcomingCount++
		}
	}

	var scoreSum float64
	var scored int
	for _, row := range submissions {
		switch row.WorkflowState {
		case "submitted":
			stats.SubmittedCount++
		case "graded":
			stats.GradedCount++
		}
		if row.Score != nil {
			scoreSum += *row.Score
			scored++
		}
	}
	if scored > 0 {
		stats.AverageScore = scoreSum / float64(scored)
	}

	return stats, nil
}

// fetch issues the assignment-list and submission-list calls concurrently.
func (s *AnalyticsService) fetch(ctx context.Context, token string, courseID int64) ([]upstream.Assignment, []upstream.StudentSubmission, error) {
	var (
		wg             sync.WaitGroup
		assignments    []upstream.Assignment
		assignmentsErr error
		submissions    []upstream.StudentSubmission
		submissionsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		assignments, assignmentsErr = s.canvas.Assignments(ctx, token, courseID, false)
	}()
	go func() {
		defer wg.Done()
		submissions, submissionsErr = s.canvas.StudentSubmissions(ctx, token, courseID)
	}()
	wg.Wait()

	if assignmentsErr != nil {
		return nil, nil, assignmentsErr
	}
	if submissionsErr != nil {
		return nil, nil, submissionsErr
	}
	return assignments, submissions, nil
}

func groupSubmissions(submissions []upstream.StudentSubmission) map[int64][]upstream.StudentSubmission {
	grouped := make(map[int64][]upstream.StudentSubmission)
	for _, row := range submissions {
		grouped[row.AssignmentID] = append(grouped[row.AssignmentID], row)
	}
	return grouped
}

func spread(scores []float64) models.GradeSpread {
	result := models.GradeSpread{Min: scores[0], Max: scores[0]}
	var sum float64
	for _, score := range scores {
		if score < result.Min {
			result.Min = score
		}
		if score > result.Max {
			result.Max = score
		}
		sum += score
	}
	result.Avg = sum / float64(len(scores))
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
