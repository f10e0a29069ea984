package handler

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/domain"
	"resumeflow/internal/export"
	"resumeflow/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShortlistHandler handles job-description ranking endpoints.
type ShortlistHandler struct {
	shortlistService service.ShortlistService
	defaultMinScore  int
	maxFileBytes     int64
	now              func() time.Time
}

// NewShortlistHandler creates a new ShortlistHandler.
func NewShortlistHandler(shortlistService service.ShortlistService, defaultMinScore int, maxFileSizeMB int64) *ShortlistHandler {
	return &ShortlistHandler{
		shortlistService: shortlistService,
		defaultMinScore:  defaultMinScore,
		maxFileBytes:     maxFileSizeMB << 20,
		now:              time.Now,
	}
}

// Shortlist handles POST /api/v1/shortlists
// @Summary Rank candidates against a job description
// @Description Score every candidate of the caller, keep those at or above min_score, sorted by score descending
// @Tags shortlists
// @Accept json
// @Produce json
// @Param request body ShortlistRequest true "Job description and filters"
// @Success 200 {object} Response{data=domain.ShortlistResult} "Ranked candidates"
// @Failure 400 {object} ErrorResponseBody "Empty job description"
// @Security BearerAuth
// @Router /shortlists [post]
func (h *ShortlistHandler) Shortlist(c *gin.Context) {
	res, ok := h.runJSON(c)
	if !ok {
		return
	}
	RespondOK(c, res)
}

// ShortlistFile handles POST /api/v1/shortlists/file
// @Summary Rank candidates against a job description document
// @Tags shortlists
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Job description (pdf, docx or txt)"
// @Param min_score formData int false "Minimum score"
// @Param limit formData int false "Maximum number of candidates"
// @Success 200 {object} Response{data=domain.ShortlistResult} "Ranked candidates"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Security BearerAuth
// @Router /shortlists/file [post]
func (h *ShortlistHandler) ShortlistFile(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	minScore, limit, ok := h.formLimits(c)
	if !ok {
		return
	}
	doc, err := readUpload(fh, h.maxFileBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	res, err := h.shortlistService.ShortlistDocument(c.Request.Context(), service.ShortlistInput{
		OwnerID:  ownerID,
		MinScore: minScore,
		Limit:    limit,
	}, doc)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Export handles POST /api/v1/shortlists/export
// @Summary Rank candidates and download the result as a workbook
// @Tags shortlists
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body ShortlistRequest true "Job description and filters"
// @Success 200 {file} file "Shortlist workbook"
// @Failure 400 {object} ErrorResponseBody "Empty job description"
// @Security BearerAuth
// @Router /shortlists/export [post]
func (h *ShortlistHandler) Export(c *gin.Context) {
	res, ok := h.runJSON(c)
	if !ok {
		return
	}

	at := h.now()
	var buf bytes.Buffer
	if err := export.WriteShortlistWorkbook(&buf, res, at); err != nil {
		log.Printf("shortlistHandler.Export: writing workbook: %v", err)
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "failed to build the shortlist workbook")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+export.BuildFilename("shortlist", "xlsx", at)+"\"")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ShortlistHandler) runJSON(c *gin.Context) (*domain.ShortlistResult, bool) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return nil, false
	}

	var req ShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "job_description is required")
		return nil, false
	}

	minScore := h.defaultMinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if !validScore(minScore) {
		RespondError(c, http.StatusBadRequest, "INVALID_MIN_SCORE", "min_score must be between 0 and 100")
		return nil, false
	}

	res, err := h.shortlistService.Shortlist(c.Request.Context(), service.ShortlistInput{
		OwnerID:        ownerID,
		JobDescription: req.JobDescription,
		MinScore:       minScore,
		Limit:          req.Limit,
	})
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return res, true
}

func (h *ShortlistHandler) formLimits(c *gin.Context) (minScore, limit int, ok bool) {
	minScore = h.defaultMinScore
	if s := c.PostForm("min_score"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || !validScore(n) {
			RespondError(c, http.StatusBadRequest, "INVALID_MIN_SCORE", "min_score must be between 0 and 100")
			return 0, 0, false
		}
		minScore = n
	}
	if s := c.PostForm("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			return 0, 0, false
		}
		limit = n
	}
	return minScore, limit, true
}

func validScore(n int) bool { return n >= 0 && n <= 100 }
