package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
)

type fakeAssignmentLister struct {
	assignments []models.Assignment
	err         error
	lastQuery   AssignmentQuery
}

func (f *fakeAssignmentLister) List(_ context.Context, _ string, query AssignmentQuery) ([]models.Assignment, *models.Pagination, bool, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.assignments, &models.Pagination{TotalCount: len(f.assignments)}, false, nil
}

func exportFixture() []models.Assignment {
	due := time.Date(2024, 11, 11, 23, 59, 0, 0, time.UTC)
	return []models.Assignment{
		{
			ID:             1,
			Name:           "Lab report",
			DueAt:          &due,
			PointsPossible: float64Ptr(25),
			CourseName:     "Chemistry",
			Priority:       13,
			Bucket:         models.BucketDueToday,
		},
		{
			ID:         2,
			Name:       "Reading response",
			CourseName: "Literature",
			Priority:   1,
			Bucket:     models.BucketUpcoming,
		},
	}
}

func TestRenderCSV(t *testing.T) {
	lister := &fakeAssignmentLister{assignments: exportFixture()}
	svc := NewExportService(lister)

	got, err := svc.Render(context.Background(), "token", AssignmentQuery{}, ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", got.ContentType)
	assert.Equal(t, "assignments.csv", got.Filename)

	lines := strings.Split(strings.TrimSpace(string(got.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course,Assignment,Due,Points,Priority,Bucket", strings.TrimSpace(lines[0]))
	assert.Equal(t, "Chemistry,Lab report,2024-11-11T23:59:00Z,25,13,due_today", strings.TrimSpace(lines[1]))
	assert.Equal(t, "Literature,Reading response,,,1,upcoming", strings.TrimSpace(lines[2]))
}

func TestRenderPDF(t *testing.T) {
	lister := &fakeAssignmentLister{assignments: exportFixture()}
	svc := NewExportService(lister)

	got, err := svc.Render(context.Background(), "token", AssignmentQuery{}, ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, "assignments.pdf", got.Filename)
	assert.True(t, strings.HasPrefix(string(got.Payload), "%PDF"))
}

func TestRenderForcesSummarySkip(t *testing.T) {
	lister := &fakeAssignmentLister{}
	svc := NewExportService(lister)

	_, err := svc.Render(context.Background(), "token", AssignmentQuery{SkipSummarization: false}, ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, lister.lastQuery.SkipSummarization)
}

func TestRenderUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&fakeAssignmentLister{})

	_, err := svc.Render(context.Background(), "token", AssignmentQuery{}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRenderPropagatesListErrors(t *testing.T) {
	lister := &fakeAssignmentLister{err: appErrors.ErrUpstreamUnavailable}
	svc := NewExportService(lister)

	_, err := svc.Render(context.Background(), "token", AssignmentQuery{}, ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamUnavailable)
}
