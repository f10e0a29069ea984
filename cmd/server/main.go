package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"resumeflow/internal/config"
	"resumeflow/internal/dedup"
	"resumeflow/internal/email/noop"
	"resumeflow/internal/email/ses"
	"resumeflow/internal/extract"
	"resumeflow/internal/generation"
	_ "resumeflow/internal/generation/all"
	"resumeflow/internal/handler"
	"resumeflow/internal/port"
	"resumeflow/internal/repository/sqldb"
	"resumeflow/internal/router"
	"resumeflow/internal/service"
	s3storage "resumeflow/internal/storage/s3"
	"resumeflow/internal/validator/resume"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqldb.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	gen, err := generation.Build(ctx, &cfg.Generation)
	if err != nil {
		return fmt.Errorf("failed to initialize generation: %w", err)
	}
	defer gen.Close()

	// Initialize storage
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewObjectStore(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Printf("S3 disabled; original resumes will not be stored")
	}

	emailSender, err := newEmailSender(ctx, &cfg.Email)
	if err != nil {
		return err
	}

	contentValidator, err := resume.NewValidator(gen.Generator)
	if err != nil {
		return fmt.Errorf("failed to initialize resume validator: %w", err)
	}
	// The ingest pipeline only gates on content when enabled; the validate endpoint always can.
	var ingestValidator resume.Validator
	if cfg.Batch.ValidateContent {
		ingestValidator = contentValidator
	}

	// Initialize repositories and services
	candidateRepo := sqldb.NewCandidateRepo(db)
	extractor := extract.NewExtractor(cfg.Batch.MinTextChars)
	resolver := dedup.NewResolver(candidateRepo, cfg.Dedup.Policy())

	ingestSvc := service.NewIngestService(extractor, gen.Generator, resolver,
		service.NewCandidateUpsert(candidateRepo), ingestValidator, storage, &cfg.S3)
	batchSvc := service.NewBatchService(ingestSvc, emailSender, cfg.Batch)
	candidateSvc := service.NewCandidateService(candidateRepo, storage, &cfg.S3)
	shortlistSvc := service.NewShortlistService(candidateRepo, gen.Generator, extractor, cfg.Shortlist)
	resumeSvc := service.NewResumeService(gen.Generator, extractor, contentValidator)
	tokenSvc := service.NewTokenService(cfg.JWT)

	// Initialize handlers
	handlers := router.Handlers{
		Candidate: handler.NewCandidateHandler(candidateSvc, cfg.S3.PresignExpiry),
		Batch:     handler.NewBatchHandler(batchSvc, cfg.Batch.MaxFiles, cfg.S3.MaxFileSizeMB),
		Resume:    handler.NewResumeHandler(resumeSvc, cfg.S3.MaxFileSizeMB),
		Shortlist: handler.NewShortlistHandler(shortlistSvc, cfg.Shortlist.DefaultMinScore, cfg.S3.MaxFileSizeMB),
		Health:    handler.NewHealthHandler(db, gen, cacheStats(gen)),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Setup(tokenSvc, handlers, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEmailSender(ctx context.Context, cfg *config.EmailConfig) (port.EmailSender, error) {
	if cfg.Provider != "ses" {
		return noop.NewNoopSender(), nil
	}
	sender, err := ses.NewSESSender(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
	}
	return sender, nil
}

// cacheStats returns nil when caching is disabled so the handler reports zeros.
func cacheStats(s *generation.Stack) handler.CacheStatter {
	if s.Cache == nil {
		return nil
	}
	return s.Cache
}
