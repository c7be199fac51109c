package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
	"github.com/noah-isme/canvas-assistant-api/pkg/export"
)

// ExportFormat identifies a rendering target.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type assignmentLister interface {
	List(ctx context.Context, token string, query AssignmentQuery) ([]models.Assignment, *models.Pagination, bool, error)
}

// ExportService renders the prioritized assignment list as a download.
type ExportService struct {
	assignments assignmentLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService(assignments assignmentLister) *ExportService {
	return &ExportService{
		assignments: assignments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// ExportResult carries rendered bytes plus response metadata.
type ExportResult struct {
	ContentType string
	Filename    string
	Payload     []byte
}

// Render produces the assignment table in the requested format. Summaries
// are always skipped; descriptions do not belong in a tabular export.
func (s *ExportService) Render(ctx context.Context, token string, query AssignmentQuery, format ExportFormat) (*ExportResult, error) {
	query.SkipSummarization = true
	assignments, _, _, err := s.assignments.List(ctx, token, query)
	if err != nil {
		return nil, err
	}

	dataset := assignmentDataset(assignments)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
		}
		return &ExportResult{ContentType: "text/csv", Filename: "assignments.csv", Payload: payload}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Assignment priorities")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: "assignments.pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func assignmentDataset(assignments []models.Assignment) export.Dataset {
	headers := []string{"Course", "Assignment", "Due", "Points", "Priority", "Bucket"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		due := ""
		if a.DueAt != nil {
			due = a.DueAt.UTC().Format(time.RFC3339)
		}
		points := ""
		if a.PointsPossible != nil {
			points = strings.TrimSuffix(fmt.Sprintf("%.2f", *a.PointsPossible), ".00")
		}
		rows = append(rows, map[string]string{
			"Course":     a.CourseName,
			"Assignment": a.Name,
			"Due":        due,
			"Points":     points,
			"Priority":   fmt.Sprintf("%d", a.Priority),
			"Bucket":     string(a.Bucket),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
