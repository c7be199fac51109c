package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
)

type fakeCanvas struct {
	favorites      []models.Course
	favoritesErr   error
	active         []models.Course
	activeErr      error
	courses        map[int64]*models.Course
	courseErr      map[int64]error
	assignments    map[int64][]upstream.Assignment
	assignmentsErr map[int64]error
	assignment     *upstream.Assignment
	assignmentErr  error
}

func (f *fakeCanvas) ActiveCourses(context.Context, string) ([]models.Course, error) {
	return f.active, f.activeErr
}

func (f *fakeCanvas) FavoriteCourses(context.Context, string) ([]models.Course, error) {
	if f.favoritesErr != nil {
		return nil, f.favoritesErr
	}
	return f.favorites, nil
}

func (f *fakeCanvas) Course(_ context.Context, _ string, courseID int64) (*models.Course, error) {
	if err := f.courseErr[courseID]; err != nil {
		return nil, err
	}
	if course, ok := f.courses[courseID]; ok {
		return course, nil
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeCanvas) Assignments(_ context.Context, _ string, courseID int64, _ bool) ([]upstream.Assignment, error) {
	if err := f.assignmentsErr[courseID]; err != nil {
		return nil, err
	}
	return f.assignments[courseID], nil
}

func (f *fakeCanvas) Assignment(context.Context, string, int64, int64) (*upstream.Assignment, error) {
	return f.assignment, f.assignmentErr
}

type fakeSummarizer struct {
	modes []SummaryMode
}

func (f *fakeSummarizer) Summarize(_ context.Context, description string, mode SummaryMode) string {
	f.modes = append(f.modes, mode)
	if mode == SummaryModeSkip {
		return ""
	}
	return "summary of " + description
}

func newTestAssignmentService(canvas *fakeCanvas, repo *stubCacheRepo, now time.Time, cfg AssignmentServiceConfig) (*AssignmentService, *fakeSummarizer) {
	summaries := &fakeSummarizer{}
	var cacheSvc *CacheService
	if repo != nil {
		cacheSvc = NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	}
	svc := NewAssignmentService(AssignmentServiceParams{
		Canvas:    canvas,
		Summaries: summaries,
		Cache:     cacheSvc,
		Logger:    zap.NewNop(),
		Config:    cfg,
	})
	svc.now = func() time.Time { return now }
	return svc, summaries
}

func courseIDPtr(id int64) *int64 { return &id }

func TestListFiltersCompletedAndScores(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	dueSoon := now.Add(12 * time.Hour)
	dueLater := now.Add(10 * 24 * time.Hour)

	canvas := &fakeCanvas{
		courses: map[int64]*models.Course{101: {ID: 101, Name: "Biology"}},
		assignments: map[int64][]upstream.Assignment{
			101: {
				{ID: 1, Name: "A1", DueAt: &dueSoon, PointsPossible: float64Ptr(90)},
				{ID: 2, Name: "A2", DueAt: &dueLater, PointsPossible: float64Ptr(30), Submission: &models.Submission{WorkflowState: "submitted"}},
			},
		},
	}
	svc, summaries := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{})

	got, pagination, cacheHit, err := svc.List(context.Background(), "token", AssignmentQuery{
		CourseID:          courseIDPtr(101),
		SkipSummarization: true,
	})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, got, 1)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "A1", got[0].Name)
	assert.Equal(t, "Biology", got[0].CourseName)
	assert.Equal(t, 14, got[0].Priority)
	assert.Equal(t, models.BucketDueToday, got[0].Bucket)
	assert.Equal(t, "", got[0].Summary)
	assert.Equal(t, []SummaryMode{SummaryModeSkip}, summaries.modes)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestListStableSortPreservesEncounterOrder(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(12 * time.Hour)

	canvas := &fakeCanvas{
		favorites: []models.Course{{ID: 1}, {ID: 2}},
		courses: map[int64]*models.Course{
			1: {ID: 1, Name: "First"},
			2: {ID: 2, Name: "Second"},
		},
		assignments: map[int64][]upstream.Assignment{
			1: {
				{ID: 11, Name: "first-a", DueAt: &due},
				{ID: 12, Name: "first-b", DueAt: &due},
			},
			2: {
				{ID: 21, Name: "second-a", DueAt: &due},
			},
		},
	}
	svc, _ := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{})

	got, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{SkipSummarization: true})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// All three score identically; course iteration order then
	// within-course order must survive the sort.
	assert.Equal(t, []int64{11, 12, 21}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestListPagination(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	var assignments []upstream.Assignment
	for i := 0; i < 10; i++ {
		due := now.Add(time.Duration(i+1) * 30 * 24 * time.Hour)
		assignments = append(assignments, upstream.Assignment{
			ID:    int64(i + 1),
			Name:  fmt.Sprintf("hw-%d", i+1),
			DueAt: &due,
		})
	}
	canvas := &fakeCanvas{
		courses:     map[int64]*models.Course{7: {ID: 7, Name: "History"}},
		assignments: map[int64][]upstream.Assignment{7: assignments},
	}
	svc, _ := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{})

	got, pagination, _, err := svc.List(context.Background(), "token", AssignmentQuery{
		CourseID:          courseIDPtr(7),
		SkipSummarization: true,
		Limit:             3,
		Offset:            5,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{6, 7, 8}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 10, pagination.TotalCount)

	empty, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{
		CourseID:          courseIDPtr(7),
		SkipSummarization: true,
		Limit:             3,
		Offset:            20,
	})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListCachesFilteredQueries(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(12 * time.Hour)

	canvas := &fakeCanvas{
		courses: map[int64]*models.Course{5: {ID: 5, Name: "Math"}},
		assignments: map[int64][]upstream.Assignment{
			5: {{ID: 50, Name: "problem set", DueAt: &due}},
		},
	}
	repo := &stubCacheRepo{}
	svc, _ := newTestAssignmentService(canvas, repo, now, AssignmentServiceConfig{})
	ctx := context.Background()

	query := AssignmentQuery{CourseID: courseIDPtr(5), SkipSummarization: true}

	_, _, hit, err := svc.List(ctx, "token", query)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, repo.setCalls)
	assert.Contains(t, repo.data, "assignments:5:skip=true")

	got, _, hit, err := svc.List(ctx, "token", query)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, int64(50), got[0].ID)
	// The second call served from cache; no new write happened.
	assert.Equal(t, 1, repo.setCalls)
}

func TestListDoesNotCacheUnfilteredQueries(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	canvas := &fakeCanvas{
		favorites:   []models.Course{{ID: 5}},
		courses:     map[int64]*models.Course{5: {ID: 5, Name: "Math"}},
		assignments: map[int64][]upstream.Assignment{5: {{ID: 50, Name: "problem set"}}},
	}
	repo := &stubCacheRepo{}
	svc, _ := newTestAssignmentService(canvas, repo, now, AssignmentServiceConfig{})

	_, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{SkipSummarization: true})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.setCalls)
}

func TestListIsolatesCourseFailures(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(12 * time.Hour)

	canvas := &fakeCanvas{
		favorites: []models.Course{{ID: 1}, {ID: 2}},
		courses:   map[int64]*models.Course{2: {ID: 2, Name: "Chemistry"}},
		courseErr: map[int64]error{1: appErrors.ErrUpstreamUnavailable},
		assignments: map[int64][]upstream.Assignment{
			2: {{ID: 21, Name: "lab report", DueAt: &due}},
		},
	}
	svc, _ := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{})

	got, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{SkipSummarization: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(21), got[0].ID)
}

func TestListFallsBackToActiveCourses(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	canvas := &fakeCanvas{
		favoritesErr: appErrors.UpstreamRejected(404, "favorites unavailable"),
		active:       []models.Course{{ID: 3}},
		courses:      map[int64]*models.Course{3: {ID: 3, Name: "Physics"}},
		assignments:  map[int64][]upstream.Assignment{3: {{ID: 31, Name: "worksheet"}}},
	}
	svc, _ := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{})

	got, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{SkipSummarization: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(31), got[0].ID)
}

func TestListEmitsPlaceholderForEmptyCourse(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	canvas := &fakeCanvas{
		courses:     map[int64]*models.Course{9: {ID: 9, Name: "Art"}},
		assignments: map[int64][]upstream.Assignment{9: nil},
	}
	svc, _ := newTestAssignmentService(canvas, nil, now, AssignmentServiceConfig{PlaceholderEntries: true})

	got, _, _, err := svc.List(context.Background(), "token", AssignmentQuery{CourseID: courseIDPtr(9), SkipSummarization: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(-9), got[0].ID)
	assert.Equal(t, 0, got[0].Priority)
	assert.Equal(t, models.BucketUpcoming, got[0].Bucket)
	assert.Equal(t, "Art", got[0].CourseName)
}

func TestAssignmentSummaryWithoutDescription(t *testing.T) {
	canvas := &fakeCanvas{assignment: &upstream.Assignment{ID: 1, Name: "quiz"}}
	svc, summaries := newTestAssignmentService(canvas, nil, time.Now(), AssignmentServiceConfig{})

	got, err := svc.AssignmentSummary(context.Background(), "token", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "No description available", got)
	assert.Empty(t, summaries.modes)
}

func TestAssignmentSummarySummarizes(t *testing.T) {
	canvas := &fakeCanvas{assignment: &upstream.Assignment{ID: 1, Name: "essay", Description: "write about frogs"}}
	svc, summaries := newTestAssignmentService(canvas, nil, time.Now(), AssignmentServiceConfig{})

	got, err := svc.AssignmentSummary(context.Background(), "token", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "summary of write about frogs", got)
	assert.Equal(t, []SummaryMode{SummaryModeRemote}, summaries.modes)
}

func TestAssignmentSummaryPropagatesFetchErrors(t *testing.T) {
	canvas := &fakeCanvas{assignmentErr: appErrors.ErrUpstreamUnavailable}
	svc, _ := newTestAssignmentService(canvas, nil, time.Now(), AssignmentServiceConfig{})

	_, err := svc.AssignmentSummary(context.Background(), "token", 1, 1)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamUnavailable)
}
