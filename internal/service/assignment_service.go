package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
)

type canvasGateway interface {
	ActiveCourses(ctx context.Context, token string) ([]models.Course, error)
	FavoriteCourses(ctx context.Context, token string) ([]models.Course, error)
	Course(ctx context.Context, token string, courseID int64) (*models.Course, error)
	Assignments(ctx context.Context, token string, courseID int64, includeSubmission bool) ([]upstream.Assignment, error)
	Assignment(ctx context.Context, token string, courseID, assignmentID int64) (*upstream.Assignment, error)
}

type summarizer interface {
	Summarize(ctx context.Context, description string, mode SummaryMode) string
}

// AssignmentQuery captures the effective parameters of one listing request.
type AssignmentQuery struct {
	CourseID          *int64
	SkipSummarization bool
	Limit             int
	Offset            int
}

// AssignmentServiceConfig tunes aggregation behaviour.
type AssignmentServiceConfig struct {
	DefaultLimit       int
	MaxLimit           int
	PlaceholderEntries bool
	CacheTTL           time.Duration
}

// AssignmentService aggregates per-course assignment lists from Canvas,
// decorates each surfaced assignment with priority, bucket and summary, and
// serves the result through a TTL cache keyed by the query parameters.
type AssignmentService struct {
	canvas    canvasGateway
	summaries summarizer
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       AssignmentServiceConfig
}

// AssignmentServiceParams groups constructor dependencies.
type AssignmentServiceParams struct {
	Canvas    canvasGateway
	Summaries summarizer
	Cache     *CacheService
	Logger    *zap.Logger
	Config    AssignmentServiceConfig
}

// NewAssignmentService constructs an AssignmentService with sane defaults.
func NewAssignmentService(params AssignmentServiceParams) *AssignmentService {
	cfg := params.Config
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 200
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 300 * time.Second
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		canvas:    params.Canvas,
		summaries: params.Summaries,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// List returns the prioritized assignment collection for the query. The
// boolean result reports cache utilisation. Pagination is applied after the
// cache lookup, against the full per-key result set.
func (s *AssignmentService) List(ctx context.Context, token string, query AssignmentQuery) ([]models.Assignment, *models.Pagination, bool, error) {
	limit, offset := s.normalize(query.Limit, query.Offset)

	cacheKey := ""
	if query.CourseID != nil {
		cacheKey = fmt.Sprintf("assignments:%d:skip=%t", *query.CourseID, query.SkipSummarization)
		var cached []models.Assignment
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			page, pagination := paginate(cached, offset, limit)
			return page, pagination, true, nil
		}
	}

	courses, err := s.resolveCourses(ctx, token, query.CourseID)
	if err != nil {
		return nil, nil, false, err
	}

	all := s.collect(ctx, token, courses, query.SkipSummarization)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority > all[j].Priority
	})

	// Unfiltered favorite-course aggregates are never cached; the course
	// set itself can change between requests.
	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, all, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("assignment_cache_write_failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	page, pagination := paginate(all, offset, limit)
	return page, pagination, false, nil
}

// AssignmentSummary fetches one assignment and summarizes its description.
// Summarization failures degrade to the local heuristic inside the
// summarizer; the only hard failures here are upstream fetch errors.
func (s *AssignmentService) AssignmentSummary(ctx context.Context, token string, courseID, assignmentID int64) (string, error) {
	assignment, err := s.canvas.Assignment(ctx, token, courseID, assignmentID)
	if err != nil {
		return "", err
	}
	if assignment.Description == "" {
		return "No description available", nil
	}
	return s.summaries.Summarize(ctx, assignment.Description, SummaryModeRemote), nil
}

func (s *AssignmentService) normalize(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *AssignmentService) resolveCourses(ctx context.Context, token string, courseID *int64) ([]models.Course, error) {
	if courseID != nil {
		// Details are fetched in the per-course stage; only the id matters
		// here.
		return []models.Course{{ID: *courseID}}, nil
	}
	courses, err := s.canvas.FavoriteCourses(ctx, token)
	if err == nil {
		return courses, nil
	}
	s.logger.Warn("favorites_fetch_failed", zap.Error(err))
	courses, err = s.canvas.ActiveCourses(ctx, token)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// collect fans out one goroutine per course, each pairing a course-details
// fetch with an assignment-list fetch. Results are merged back in course
// iteration order so the final stable sort preserves encounter order for
// equal priorities. A failed course is logged and skipped; it never fails
// the request.
func (s *AssignmentService) collect(ctx context.Context, token string, courses []models.Course, skipSummaries bool) []models.Assignment {
	perCourse := make([][]models.Assignment, len(courses))

	var wg sync.WaitGroup
	for i, course := range courses {
		wg.Add(1)
		go func(slot int, course models.Course) {
			defer wg.Done()
			perCourse[slot] = s.collectCourse(ctx, token, course, skipSummaries)
		}(i, course)
	}
	wg.Wait()

	var all []models.Assignment
	for _, assignments := range perCourse {
		all = append(all, assignments...)
	}
	return all
}

func (s *AssignmentService) collectCourse(ctx context.Context, token string, course models.Course, skipSummaries bool) []models.Assignment {
	var (
		wg          sync.WaitGroup
		details     *models.Course
		detailsErr  error
		upstreamAsn []upstream.Assignment
		listErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		details, detailsErr = s.canvas.Course(ctx, token, course.ID)
	}()
	go func() {
		defer wg.Done()
		upstreamAsn, listErr = s.canvas.Assignments(ctx, token, course.ID, true)
	}()
	wg.Wait()

	if detailsErr != nil {
		s.logger.Warn("course_details_fetch_failed", zap.Int64("course_id", course.ID), zap.Error(detailsErr))
		return nil
	}
	if listErr != nil {
		s.logger.Warn("course_assignments_fetch_failed", zap.Int64("course_id", course.ID), zap.Error(listErr))
		return nil
	}

	mode := SummaryModeRemote
	if skipSummaries {
		mode = SummaryModeSkip
	}

	now := s.now()
	assignments := make([]models.Assignment, 0, len(upstreamAsn))
	for _, a := range upstreamAsn {
		if a.Submission.Completed() {
			continue
		}
		assignments = append(assignments, models.Assignment{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			DueAt:          a.DueAt,
			PointsPossible: a.PointsPossible,
			CourseID:       course.ID,
			CourseName:     details.Name,
			Priority:       Score(a.DueAt, a.PointsPossible, now),
			Summary:        s.summaries.Summarize(ctx, a.Description, mode),
			Bucket:         ClassifyBucket(a.DueAt, now),
		})
	}

	if len(assignments) == 0 && s.cfg.PlaceholderEntries {
		// Cosmetic placeholder so clients can still render the course row;
		// the synthetic id is negative to avoid colliding with upstream ids.
		assignments = append(assignments, models.Assignment{
			ID:         -course.ID,
			Name:       "No outstanding assignments",
			CourseID:   course.ID,
			CourseName: details.Name,
			Priority:   0,
			Bucket:     models.BucketUpcoming,
		})
	}

	return assignments
}

func paginate(all []models.Assignment, offset, limit int) ([]models.Assignment, *models.Pagination) {
	pagination := &models.Pagination{Limit: limit, Offset: offset, TotalCount: len(all)}
	if offset >= len(all) {
		return []models.Assignment{}, pagination
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], pagination
}
