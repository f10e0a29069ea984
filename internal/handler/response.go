package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resumeflow/internal/domain"
	"resumeflow/internal/generation"
	"resumeflow/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateLimited *generation.RateLimitError
	switch {
	case errors.Is(err, domain.ErrCandidateNotFound):
		return http.StatusNotFound, "CANDIDATE_NOT_FOUND", "candidate not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, docx, txt"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid status; allowed: pending, shortlisted, rejected"
	case errors.Is(err, domain.ErrInvalidDuplicateMode):
		return http.StatusBadRequest, "INVALID_DUPLICATE_HANDLING", "invalid duplicate_handling; allowed: strict, allow_updates, allow_all"
	case errors.Is(err, domain.ErrDuplicateFingerprint):
		return http.StatusConflict, "DUPLICATE_FILE", "this file has already been uploaded"
	case errors.Is(err, domain.ErrDuplicateCandidateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "a candidate with this email already exists"
	case errors.Is(err, domain.ErrDuplicateRejected):
		return http.StatusConflict, "DUPLICATE_CANDIDATE", err.Error()
	case errors.Is(err, domain.ErrResumeNotAvailable):
		return http.StatusNotFound, "RESUME_NOT_AVAILABLE", "resume file not available for this candidate"
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", "no files provided"
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", err.Error()
	case errors.Is(err, domain.ErrEmptyJobDescription):
		return http.StatusBadRequest, "EMPTY_JOB_DESCRIPTION", "job description cannot be empty"
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "EMPTY_TEXT", "text cannot be empty"
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "GENERATION_RATE_LIMITED", "text generation is rate limited; retry later"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractOwner reads the owner scope set by the auth middleware. Returns
// false if it is missing (error response already written).
func extractOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing owner context")
		return uuid.Nil, false
	}
	return ownerID, true
}

// parseCandidateID reads the :id path parameter.
func parseCandidateID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid candidate ID")
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Printf("[%s] internal error: %v", c.GetString(middleware.ContextKeyRequestID), err)
	}
	RespondError(c, status, code, msg)
}
