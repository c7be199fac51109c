package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionCompleted(t *testing.T) {
	grade := "A"
	score := 87.5

	cases := []struct {
		name       string
		submission *Submission
		want       bool
	}{
		{"nil submission", nil, false},
		{"unsubmitted", &Submission{WorkflowState: "unsubmitted"}, false},
		{"submitted", &Submission{WorkflowState: "submitted"}, true},
		{"graded", &Submission{WorkflowState: "graded"}, true},
		{"pending review with grade", &Submission{WorkflowState: "pending_review", Grade: &grade}, true},
		{"pending review with score", &Submission{WorkflowState: "pending_review", Score: &score}, true},
		{"pending review without marks", &Submission{WorkflowState: "pending_review"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.submission.Completed())
		})
	}
}
