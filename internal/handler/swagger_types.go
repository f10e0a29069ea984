package handler

import "resumeflow/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// UpdateStatusRequest represents the candidate status update body.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"shortlisted"`
}

// ShortlistRequest represents the shortlist and export request body.
type ShortlistRequest struct {
	JobDescription string `json:"job_description" binding:"required" example:"Senior Go engineer with PostgreSQL and Kubernetes experience"`
	MinScore       *int   `json:"min_score" example:"70"`
	Limit          int    `json:"limit" example:"10"`
}

// ParseTextRequest represents the parse-text request body.
type ParseTextRequest struct {
	Text string `json:"text" binding:"required" example:"Jane Doe - jane@example.com - 6 years building Go services"`
}

// --- Response Types ---

// ResumeURLResponse carries a time-limited download link.
type ResumeURLResponse struct {
	CandidateID int64  `json:"candidate_id" example:"42"`
	URL         string `json:"url" example:"https://bucket.s3.amazonaws.com/owners/.../resume.pdf?X-Amz-Signature=..."`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}

// BatchReportResponse documents the batch ingestion result.
type BatchReportResponse = domain.BatchReport

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
