package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/canvas-assistant-api/internal/dto"
	"github.com/noah-isme/canvas-assistant-api/internal/middleware"
	"github.com/noah-isme/canvas-assistant-api/internal/models"
	"github.com/noah-isme/canvas-assistant-api/internal/service"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
	"github.com/noah-isme/canvas-assistant-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, token string, query service.AssignmentQuery) ([]models.Assignment, *models.Pagination, bool, error)
	AssignmentSummary(ctx context.Context, token string, courseID, assignmentID int64) (string, error)
}

// AssignmentHandler wires the aggregation orchestrator to HTTP endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// List godoc
// @Summary Prioritized assignment list
// @Tags Assignments
// @Produce json
// @Param course_id query int false "Restrict aggregation to one course"
// @Param skip_summarization query bool false "Skip description summarization"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ListAssignmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	start := time.Now()
	assignments, pagination, cacheHit, err := h.service.List(c.Request.Context(), bearerToken(c), service.AssignmentQuery{
		CourseID:          query.CourseID,
		SkipSummarization: query.SkipSummarization,
		Limit:             query.Limit,
		Offset:            query.Offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, assignments, pagination, meta)
}

// Summary godoc
// @Summary Summarize one assignment description
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Param course_id query int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /assignment/{id}/summary [get]
func (h *AssignmentHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assignmentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id"))
		return
	}
	var query dto.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course_id is required"))
		return
	}

	summary, err := h.service.AssignmentSummary(c.Request.Context(), bearerToken(c), query.CourseID, assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SummaryResponse{Summary: summary}, nil, middleware.ExtractMeta(c))
}
