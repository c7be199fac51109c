package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canvas-assistant-api/internal/middleware"
	"github.com/noah-isme/canvas-assistant-api/internal/models"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
)

type fakeAnalyticsService struct {
	analytics    *models.CourseAnalytics
	analyticsErr error
	cacheHit     bool
	stats        *models.CourseStatistics
	statsErr     error
	lastCourseID int64
}

func (f *fakeAnalyticsService) CourseAnalytics(_ context.Context, _ string, courseID int64) (*models.CourseAnalytics, bool, error) {
	f.lastCourseID = courseID
	return f.analytics, f.cacheHit, f.analyticsErr
}

func (f *fakeAnalyticsService) CourseStatistics(_ context.Context, _ string, courseID int64) (*models.CourseStatistics, error) {
	f.lastCourseID = courseID
	return f.stats, f.statsErr
}

func newAnalyticsRouter(svc analyticsService) *gin.Engine {
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	h := NewAnalyticsHandler(svc)
	router.GET("/analytics/:course_id", h.Analytics)
	router.GET("/course_statistics/:course_id", h.Statistics)
	return router
}

func TestAnalyticsEndpoint(t *testing.T) {
	svc := &fakeAnalyticsService{
		analytics: &models.CourseAnalytics{
			AssignmentCompletion: []models.AssignmentCompletion{{AssignmentName: "Essay", CompletionRate: 0.5}},
			GradeDistribution:    map[string]models.GradeSpread{"Essay": {Min: 60, Max: 80, Avg: 70}},
			TimeSpent:            []float64{},
		},
		cacheHit: true,
	}
	router := newAnalyticsRouter(svc)

	recorder := performRequest(router, http.MethodGet, "/analytics/42", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(42), svc.lastCourseID)

	envelope := decodeEnvelope(t, recorder)
	var payload models.CourseAnalytics
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	require.Len(t, payload.AssignmentCompletion, 1)
	assert.Equal(t, 0.5, payload.AssignmentCompletion[0].CompletionRate)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestAnalyticsRejectsBadCourseID(t *testing.T) {
	router := newAnalyticsRouter(&fakeAnalyticsService{})

	for _, target := range []string{"/analytics/abc", "/analytics/0", "/analytics/-3"} {
		recorder := performRequest(router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, target)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	svc := &fakeAnalyticsService{
		stats: &models.CourseStatistics{CourseID: 42, AssignmentCount: 3, PastDueCount: 1, UpcomingCount: 2},
	}
	router := newAnalyticsRouter(svc)

	recorder := performRequest(router, http.MethodGet, "/course_statistics/42", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	var payload models.CourseStatistics
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 3, payload.AssignmentCount)
	assert.Equal(t, 1, payload.PastDueCount)
}

func TestStatisticsUpstreamError(t *testing.T) {
	svc := &fakeAnalyticsService{statsErr: appErrors.UpstreamRejected(http.StatusNotFound, "course not found")}
	router := newAnalyticsRouter(svc)

	recorder := performRequest(router, http.MethodGet, "/course_statistics/42", nil)

	require.Equal(t, http.StatusBadGateway, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrUpstreamRejected.Code, envelope.Error.Code)
}
