package router

import (
	"github.com/gin-gonic/gin"

	"resumeflow/internal/handler"
	"resumeflow/internal/middleware"
	"resumeflow/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Candidate *handler.CandidateHandler
	Batch     *handler.BatchHandler
	Resume    *handler.ResumeHandler
	Shortlist *handler.ShortlistHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(tokenSvc service.TokenService, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// Every API route is scoped to the owner in the bearer token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokenSvc))

	candidates := v1.Group("/candidates")
	candidates.GET("", h.Candidate.List)
	candidates.GET("/export", h.Candidate.ExportCSV)
	candidates.POST("/upload", h.Batch.Upload)
	candidates.POST("/batch", h.Batch.Batch)
	candidates.GET("/:id", h.Candidate.GetByID)
	candidates.PATCH("/:id/status", h.Candidate.UpdateStatus)
	candidates.POST("/:id/shortlist", h.Candidate.MarkShortlisted)
	candidates.GET("/:id/resume", h.Candidate.ResumeURL)

	resumes := v1.Group("/resumes")
	resumes.POST("/parse-text", h.Resume.ParseText)
	resumes.POST("/validate", h.Resume.Validate)

	shortlists := v1.Group("/shortlists")
	shortlists.POST("", h.Shortlist.Shortlist)
	shortlists.POST("/file", h.Shortlist.ShortlistFile)
	shortlists.POST("/export", h.Shortlist.Export)

	v1.GET("/system/cache", h.Health.CacheStats)

	return r
}
