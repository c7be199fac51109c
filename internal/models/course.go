package models

import "time"

// Course is the upstream course snapshot. It is fetched per request and
// never mutated locally.
type Course struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Code    string     `json:"code"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}
