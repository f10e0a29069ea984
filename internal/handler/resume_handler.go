package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/service"
)

// ResumeHandler handles the stateless résumé utilities.
type ResumeHandler struct {
	resumeService service.ResumeService
	maxFileBytes  int64
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(resumeService service.ResumeService, maxFileSizeMB int64) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService, maxFileBytes: maxFileSizeMB << 20}
}

// ParseText handles POST /api/v1/resumes/parse-text
// @Summary Parse résumé text without storing it
// @Tags resumes
// @Accept json
// @Produce json
// @Param request body ParseTextRequest true "Résumé text"
// @Success 200 {object} Response{data=service.ParsedText} "Raw completion and structured fields"
// @Failure 400 {object} ErrorResponseBody "Empty text"
// @Failure 429 {object} ErrorResponseBody "Generation rate limited"
// @Security BearerAuth
// @Router /resumes/parse-text [post]
func (h *ResumeHandler) ParseText(c *gin.Context) {
	var req ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	parsed, err := h.resumeService.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, parsed)
}

// Validate handles POST /api/v1/resumes/validate
// @Summary Check whether a document is a résumé
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 200 {object} Response{data=domain.ResumeValidation} "Verdict"
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /resumes/validate [post]
func (h *ResumeHandler) Validate(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	doc, err := readUpload(fh, h.maxFileBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	verdict, err := h.resumeService.Validate(c.Request.Context(), doc)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, verdict)
}
