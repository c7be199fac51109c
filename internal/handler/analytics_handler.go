package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/canvas-assistant-api/internal/middleware"
	"github.com/noah-isme/canvas-assistant-api/internal/models"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
	"github.com/noah-isme/canvas-assistant-api/pkg/response"
)

type analyticsService interface {
	CourseAnalytics(ctx context.Context, token string, courseID int64) (*models.CourseAnalytics, bool, error)
	CourseStatistics(ctx context.Context, token string, courseID int64) (*models.CourseStatistics, error)
}

// AnalyticsHandler exposes per-course analytics reductions.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Analytics godoc
// @Summary Course analytics for visualization
// @Tags Analytics
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/{course_id} [get]
func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courseID, ok := coursePathID(c)
	if !ok {
		return
	}
	analytics, cacheHit, err := h.service.CourseAnalytics(c.Request.Context(), bearerToken(c), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, analytics, nil, middleware.ExtractMeta(c))
}

// Statistics godoc
// @Summary Headline course statistics
// @Tags Analytics
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /course_statistics/{course_id} [get]
func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courseID, ok := coursePathID(c)
	if !ok {
		return
	}
	stats, err := h.service.CourseStatistics(c.Request.Context(), bearerToken(c), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

func coursePathID(c *gin.Context) (int64, bool) {
	courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil || courseID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return 0, false
	}
	return courseID, true
}
