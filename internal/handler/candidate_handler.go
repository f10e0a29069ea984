package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resumeflow/internal/domain"
	"resumeflow/internal/export"
	"resumeflow/internal/service"
)

// exportPageSize bounds each repository page read while streaming a CSV export.
const exportPageSize = 100

// CandidateHandler handles candidate review endpoints.
type CandidateHandler struct {
	candidateService service.CandidateService
	presignExpiry    int64
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(candidateService service.CandidateService, presignExpiry int64) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService, presignExpiry: presignExpiry}
}

// List handles GET /api/v1/candidates
// @Summary List candidates
// @Description List the caller's candidates, newest first, with optional filters
// @Tags candidates
// @Produce json
// @Param status query string false "pending, shortlisted or rejected"
// @Param min_experience query int false "Minimum years of experience"
// @Param max_experience query int false "Maximum years of experience"
// @Param skill query string false "Skill substring"
// @Param location query string false "Location substring"
// @Param company query string false "Employer substring"
// @Param position query string false "Position substring"
// @Param education query string false "Degree or institution substring"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Candidate,meta=PagMeta} "Candidates"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}

	filter, ok := parseCandidateFilter(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	cands, total, err := h.candidateService.List(c.Request.Context(), ownerID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, cands, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/candidates/:id
// @Summary Get candidate by ID
// @Description Get the full candidate profile including education, experience and skills
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} Response{data=domain.Candidate} "Candidate"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id} [get]
func (h *CandidateHandler) GetByID(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseCandidateID(c)
	if !ok {
		return
	}

	cand, err := h.candidateService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cand)
}

// UpdateStatus handles PATCH /api/v1/candidates/:id/status
// @Summary Update candidate status
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path int true "Candidate ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Response{data=domain.Candidate} "Updated candidate"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 404 {object} ErrorResponseBody "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id}/status [patch]
func (h *CandidateHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseCandidateID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	h.setStatus(c, ownerID, id, req.Status)
}

// MarkShortlisted handles POST /api/v1/candidates/:id/shortlist
// @Summary Mark a candidate as shortlisted
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} Response{data=domain.Candidate} "Updated candidate"
// @Failure 404 {object} ErrorResponseBody "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id}/shortlist [post]
func (h *CandidateHandler) MarkShortlisted(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseCandidateID(c)
	if !ok {
		return
	}

	h.setStatus(c, ownerID, id, string(domain.CandidateStatusShortlisted))
}

func (h *CandidateHandler) setStatus(c *gin.Context, ownerID uuid.UUID, id int64, status string) {
	cand, err := h.candidateService.UpdateStatus(c.Request.Context(), ownerID, id, status)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cand)
}

// ResumeURL handles GET /api/v1/candidates/:id/resume
// @Summary Get a download link for the original resume
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} Response{data=ResumeURLResponse} "Presigned URL"
// @Failure 404 {object} ErrorResponseBody "Candidate or resume not found"
// @Security BearerAuth
// @Router /candidates/{id}/resume [get]
func (h *CandidateHandler) ResumeURL(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseCandidateID(c)
	if !ok {
		return
	}

	url, err := h.candidateService.GetResumeURL(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ResumeURLResponse{CandidateID: id, URL: url, ExpiresIn: h.presignExpiry})
}

// ExportCSV handles GET /api/v1/candidates/export
// @Summary Export candidates as CSV
// @Description Stream every candidate matching the filters as a UTF-8 CSV file
// @Tags candidates
// @Produce text/csv
// @Param status query string false "pending, shortlisted or rejected"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /candidates/export [get]
func (h *CandidateHandler) ExportCSV(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	filter, ok := parseCandidateFilter(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	first, total, err := h.candidateService.List(ctx, ownerID, filter, 0, exportPageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=\""+export.BuildFilename("candidates", "csv", time.Now())+"\"")
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(export.BOM)

	w := export.NewCandidateWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	page := first
	for offset := 0; ; {
		if err := w.WriteCandidates(page); err != nil {
			return
		}
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
		if page, _, err = h.candidateService.List(ctx, ownerID, filter, offset, exportPageSize); err != nil {
			// headers are already sent, so the file ends short
			log.Printf("candidateHandler.ExportCSV: listing at offset %d: %v", offset, err)
			break
		}
	}
	_ = w.Flush()
}

func parseCandidateFilter(c *gin.Context) (domain.CandidateFilter, bool) {
	var f domain.CandidateFilter
	if s := c.Query("status"); s != "" {
		st, err := domain.ParseCandidateStatus(s)
		if err != nil {
			HandleError(c, err)
			return f, false
		}
		f.Status = st
	}
	for param, dst := range map[string]**int{"min_experience": &f.MinExperience, "max_experience": &f.MaxExperience} {
		s := c.Query(param)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_FILTER", param+" must be a non-negative integer")
			return f, false
		}
		*dst = &n
	}
	f.Skill = c.Query("skill")
	f.Location = c.Query("location")
	f.Company = c.Query("company")
	f.Position = c.Query("position")
	f.Education = c.Query("education")
	return f, true
}
