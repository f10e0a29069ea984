package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/middleware"
	"resumeflow/internal/port"
	"resumeflow/internal/service"
)

// BatchHandler handles résumé ingestion endpoints.
type BatchHandler struct {
	batchService service.BatchService
	maxFiles     int
	maxFileBytes int64
}

// NewBatchHandler creates a new BatchHandler. maxFiles <= 0 selects
// service.DefaultMaxBatchFiles; maxFileSizeMB <= 0 disables the per-file
// size check.
func NewBatchHandler(batchService service.BatchService, maxFiles int, maxFileSizeMB int64) *BatchHandler {
	if maxFiles <= 0 {
		maxFiles = service.DefaultMaxBatchFiles
	}
	return &BatchHandler{batchService: batchService, maxFiles: maxFiles, maxFileBytes: maxFileSizeMB << 20}
}

// Upload handles POST /api/v1/candidates/upload
// @Summary Upload a single résumé
// @Description Run the ingest pipeline over one PDF, DOCX or TXT file
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Résumé file"
// @Param duplicate_handling formData string false "strict, allow_updates or allow_all" default(strict)
// @Success 201 {object} Response{data=domain.FileOutcome} "Candidate created"
// @Success 200 {object} Response{data=domain.FileOutcome} "Existing candidate updated"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 409 {object} Response{data=domain.FileOutcome} "Duplicate rejected"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} Response{data=domain.FileOutcome} "Processing failed"
// @Security BearerAuth
// @Router /candidates/upload [post]
func (h *BatchHandler) Upload(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	mode, err := domain.ParseDuplicateMode(c.PostForm("duplicate_handling"))
	if err != nil {
		HandleError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	if _, err := extract.DetectFileType(fh.Filename); err != nil {
		HandleError(c, err)
		return
	}
	doc, err := readUpload(fh, h.maxFileBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	run, err := h.batchService.Run(c.Request.Context(), service.BatchInput{
		OwnerID: ownerID,
		Mode:    mode,
		Files:   []port.RawDocument{doc},
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	out := run.Results[0]
	c.JSON(outcomeStatusCode(out), APIResponse{Success: out.Status != domain.OutcomeError, Data: out})
}

// Batch handles POST /api/v1/candidates/batch
// @Summary Upload a batch of résumés
// @Description Process up to the configured number of files concurrently. Every file gets an outcome in upload order; a batch summary email is sent when the caller has an email.
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Résumé files (repeat the field)"
// @Param duplicate_handling formData string false "strict, allow_updates or allow_all" default(strict)
// @Success 200 {object} Response{data=BatchReportResponse} "Batch report"
// @Failure 400 {object} ErrorResponseBody "No files, too many files or invalid mode"
// @Security BearerAuth
// @Router /candidates/batch [post]
func (h *BatchHandler) Batch(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}
	mode, err := domain.ParseDuplicateMode(firstValue(form.Value["duplicate_handling"]))
	if err != nil {
		HandleError(c, err)
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		HandleError(c, domain.ErrNoFiles)
		return
	}
	if len(headers) > h.maxFiles {
		HandleError(c, fmt.Errorf("%w: maximum %d files allowed per batch", domain.ErrTooManyFiles, h.maxFiles))
		return
	}

	// Unsupported and oversized files are kept: the pipeline reports them per file.
	docs := make([]port.RawDocument, 0, len(headers))
	for _, fh := range headers {
		if h.maxFileBytes > 0 && fh.Size > h.maxFileBytes {
			ft, _ := extract.DetectFileType(fh.Filename)
			docs = append(docs, port.RawDocument{Filename: fh.Filename, FileType: ft, TooLarge: true})
			continue
		}
		doc, err := readUpload(fh, 0)
		if err != nil {
			HandleError(c, err)
			return
		}
		docs = append(docs, doc)
	}

	run, err := h.batchService.Run(c.Request.Context(), service.BatchInput{
		OwnerID:    ownerID,
		OwnerEmail: middleware.GetEmail(c),
		Mode:       mode,
		Files:      docs,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run.Report())
}

// readUpload loads one multipart file into memory. maxBytes <= 0 means no limit.
func readUpload(fh *multipart.FileHeader, maxBytes int64) (port.RawDocument, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return port.RawDocument{}, fmt.Errorf("%s: %w", fh.Filename, domain.ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return port.RawDocument{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return port.RawDocument{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	ft, _ := extract.DetectFileType(fh.Filename)
	return port.RawDocument{Filename: fh.Filename, FileType: ft, Data: data}, nil
}

func outcomeStatusCode(out domain.FileOutcome) int {
	switch {
	case out.Status == domain.OutcomeDuplicate:
		return http.StatusConflict
	case out.Status == domain.OutcomeError:
		return http.StatusUnprocessableEntity
	case out.Action == domain.UpsertActionCreated:
		return http.StatusCreated
	default:
		return http.StatusOK
	}
}

func firstValue(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
