package handler

import (
	"context"

	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
	"github.com/noah-isme/canvas-assistant-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, token string) ([]models.Course, error)
}

// CourseHandler exposes the caller's course list.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary Active course list
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courses, err := h.service.List(c.Request.Context(), bearerToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
