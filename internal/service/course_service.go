package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
)

type courseLister interface {
	ActiveCourses(ctx context.Context, token string) ([]models.Course, error)
}

// CourseService exposes the caller's course list.
type CourseService struct {
	canvas courseLister
	logger *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(canvas courseLister, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{canvas: canvas, logger: logger}
}

// List returns the caller's actively-enrolled courses. Date-restricted
// courses are already dropped by the gateway.
func (s *CourseService) List(ctx context.Context, token string) ([]models.Course, error) {
	courses, err := s.canvas.ActiveCourses(ctx, token)
	if err != nil {
		return nil, err
	}
	return courses, nil
}
