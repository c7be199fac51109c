package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/canvas-assistant-api/internal/dto"
	"github.com/noah-isme/canvas-assistant-api/internal/service"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
	"github.com/noah-isme/canvas-assistant-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, token string, query service.AssignmentQuery, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves assignment list downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Download the prioritized assignment list
// @Tags Assignments
// @Produce text/csv
// @Produce application/pdf
// @Param course_id query int false "Restrict aggregation to one course"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} byte
// @Router /assignments/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ExportAssignmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	format := service.ExportFormat(query.Format)
	if format == "" {
		format = service.ExportFormatCSV
	}

	result, err := h.service.Render(c.Request.Context(), bearerToken(c), service.AssignmentQuery{CourseID: query.CourseID}, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
