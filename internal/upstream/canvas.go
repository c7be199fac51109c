package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/models"
	"github.com/noah-isme/canvas-assistant-api/pkg/config"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
)

// Observer receives timing for upstream calls. Implemented by the metrics
// service; nil observers are tolerated everywhere.
type Observer interface {
	ObserveUpstreamRequest(api, endpoint string, status int, duration time.Duration)
}

// CanvasClient issues authenticated calls against the Canvas LMS REST API.
// It holds no per-request state; a token supplied per call overrides the
// configured service-account token.
type CanvasClient struct {
	baseURL  string
	token    string
	client   *http.Client
	logger   *zap.Logger
	observer Observer
}

// NewCanvasClient constructs a client from configuration.
func NewCanvasClient(cfg config.CanvasConfig, logger *zap.Logger, observer Observer) *CanvasClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasClient{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		observer: observer,
	}
}

// Assignment is the upstream assignment payload with optional fields decoded
// explicitly. Absent fields stay nil rather than crashing the decode.
type Assignment struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	DueAt          *time.Time         `json:"due_at"`
	PointsPossible *float64           `json:"points_possible"`
	Submission     *models.Submission `json:"submission"`
}

// StudentSubmission is one row of the course-wide submission listing.
type StudentSubmission struct {
	AssignmentID  int64    `json:"assignment_id"`
	WorkflowState string   `json:"workflow_state"`
	Score         *float64 `json:"score"`
}

type courseResource struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	CourseCode             string     `json:"course_code"`
	StartAt                *time.Time `json:"start_at"`
	EndAt                  *time.Time `json:"end_at"`
	AccessRestrictedByDate bool       `json:"access_restricted_by_date"`
}

func (r courseResource) toModel() models.Course {
	return models.Course{
		ID:      r.ID,
		Name:    r.Name,
		Code:    r.CourseCode,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
	}
}

// ActiveCourses lists the caller's actively-enrolled courses. Courses that
// are date-restricted are dropped here, matching what the client can see.
func (c *CanvasClient) ActiveCourses(ctx context.Context, token string) ([]models.Course, error) {
	var resources []courseResource
	if err := c.get(ctx, token, "/courses?enrollment_state=active", &resources); err != nil {
		return nil, err
	}
	return filterRestricted(resources), nil
}

// FavoriteCourses lists the caller's starred course subset, the default
// scope for assignment aggregation.
func (c *CanvasClient) FavoriteCourses(ctx context.Context, token string) ([]models.Course, error) {
	var resources []courseResource
	if err := c.get(ctx, token, "/users/self/favorites/courses", &resources); err != nil {
		return nil, err
	}
	return filterRestricted(resources), nil
}

// Course fetches details for a single course.
func (c *CanvasClient) Course(ctx context.Context, token string, courseID int64) (*models.Course, error) {
	var resource courseResource
	if err := c.get(ctx, token, fmt.Sprintf("/courses/%d", courseID), &resource); err != nil {
		return nil, err
	}
	course := resource.toModel()
	return &course, nil
}

// Assignments lists a course's assignments, optionally embedding each
// caller's submission sub-record.
func (c *CanvasClient) Assignments(ctx context.Context, token string, courseID int64, includeSubmission bool) ([]Assignment, error) {
	endpoint := fmt.Sprintf("/courses/%d/assignments", courseID)
	if includeSubmission {
		endpoint += "?include[]=submission"
	}
	var assignments []Assignment
	if err := c.get(ctx, token, endpoint, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Assignment fetches a single assignment.
func (c *CanvasClient) Assignment(ctx context.Context, token string, courseID, assignmentID int64) (*Assignment, error) {
	var assignment Assignment
	if err := c.get(ctx, token, fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID), &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// StudentSubmissions lists the course-wide submissions used by analytics.
func (c *CanvasClient) StudentSubmissions(ctx context.Context, token string, courseID int64) ([]StudentSubmission, error) {
	var submissions []StudentSubmission
	if err := c.get(ctx, token, fmt.Sprintf("/courses/%d/students/submissions", courseID), &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (c *CanvasClient) get(ctx context.Context, token, endpoint string, dest interface{}) error {
	bearer := token
	if bearer == "" {
		bearer = c.token
	}
	if bearer == "" {
		return appErrors.ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build canvas request")
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		c.logger.Warn("canvas_transport_failure",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "canvas unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain for connection reuse; the body is never surfaced to clients.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("canvas_rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return appErrors.UpstreamRejected(resp.StatusCode, "canvas request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "decode canvas response")
	}
	return nil
}

func (c *CanvasClient) observe(endpoint string, status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	// Strip query strings so metric label cardinality stays bounded.
	if u, err := url.Parse(endpoint); err == nil {
		endpoint = u.Path
	}
	c.observer.ObserveUpstreamRequest("canvas", endpoint, status, duration)
}

func filterRestricted(resources []courseResource) []models.Course {
	courses := make([]models.Course, 0, len(resources))
	for _, r := range resources {
		if r.AccessRestrictedByDate {
			continue
		}
		courses = append(courses, r.toModel())
	}
	return courses
}
