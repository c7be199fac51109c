package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Canvas Assistant API",
        "description": "Backend-for-frontend aggregating Canvas LMS data with prioritization and summarization",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Assignments", "description": "Prioritized assignment aggregation"},
        {"name": "Courses", "description": "Course listing"},
        {"name": "Analytics", "description": "Per-course analytics reductions"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Prioritized assignment list",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "integer", "required": false},
                    {"name": "skip_summarization", "in": "query", "type": "boolean", "required": false},
                    {"name": "limit", "in": "query", "type": "integer", "required": false},
                    {"name": "offset", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/export": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Download the prioritized assignment list",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "integer", "required": false},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "required": false}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assignment/{id}/summary": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Summarize one assignment description",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "course_id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "Active course list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/{course_id}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Course analytics for visualization",
                "parameters": [
                    {"name": "course_id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/course_statistics/{course_id}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Headline course statistics",
                "parameters": [
                    {"name": "course_id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Assignment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "due_at": {"type": "string", "format": "date-time"},
                "points_possible": {"type": "number"},
                "course_id": {"type": "integer"},
                "course_name": {"type": "string"},
                "priority": {"type": "integer"},
                "summary": {"type": "string"},
                "bucket": {"type": "string", "enum": ["past_due", "due_today", "due_this_week", "upcoming"]}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "code": {"type": "string"},
                "start_at": {"type": "string", "format": "date-time"},
                "end_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
