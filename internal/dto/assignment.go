package dto

// ListAssignmentsQuery captures GET /assignments query parameters.
type ListAssignmentsQuery struct {
	CourseID          *int64 `form:"course_id" binding:"omitempty,gt=0"`
	SkipSummarization bool   `form:"skip_summarization"`
	Limit             int    `form:"limit" binding:"omitempty,gte=0"`
	Offset            int    `form:"offset" binding:"omitempty,gte=0"`
}

// ExportAssignmentsQuery captures GET /assignments/export parameters.
type ExportAssignmentsQuery struct {
	CourseID *int64 `form:"course_id" binding:"omitempty,gt=0"`
	Format   string `form:"format" binding:"omitempty,oneof=csv pdf"`
}

// SummaryQuery captures GET /assignment/{id}/summary parameters.
type SummaryQuery struct {
	CourseID int64 `form:"course_id" binding:"required,gt=0"`
}

// SummaryResponse wraps a generated assignment summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}
