package models

import "time"

// Bucket is the coarse temporal classification of an assignment relative to
// the current instant.
type Bucket string

const (
	BucketPastDue     Bucket = "past_due"
	BucketDueToday    Bucket = "due_today"
	BucketDueThisWeek Bucket = "due_this_week"
	BucketUpcoming    Bucket = "upcoming"
)

// Assignment is the decorated view of a Canvas assignment surfaced to the
// client. Priority, Bucket and Summary are computed here and never written
// back upstream.
type Assignment struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	PointsPossible *float64   `json:"points_possible,omitempty"`
	CourseID       int64      `json:"course_id"`
	CourseName     string     `json:"course_name"`
	Priority       int        `json:"priority"`
	Summary        string     `json:"summary"`
	Bucket         Bucket     `json:"bucket"`
}

// Submission is the sub-record embedded in upstream assignment payloads,
// consumed only to decide completion filtering.
type Submission struct {
	WorkflowState string   `json:"workflow_state"`
	Grade         *string  `json:"grade,omitempty"`
	Score         *float64 `json:"score,omitempty"`
}

// Completed reports whether the submission indicates the assignment no
// longer needs surfacing.
func (s *Submission) Completed() bool {
	if s == nil {
		return false
	}
	if s.WorkflowState == "submitted" || s.WorkflowState == "graded" {
		return true
	}
	return s.Grade != nil || s.Score != nil
}
