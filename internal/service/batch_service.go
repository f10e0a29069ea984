package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

// DefaultMaxBatchFiles bounds the number of files accepted per batch call.
const DefaultMaxBatchFiles = 50

// BatchInput is one batch ingestion call. OwnerEmail, when set, receives a
// summary email once the batch completes.
type BatchInput struct {
	OwnerID    uuid.UUID
	OwnerEmail string
	Mode       domain.DuplicateMode
	Files      []port.RawDocument
}

// BatchService runs the ingest pipeline over many files concurrently.
type BatchService interface {
	Run(ctx context.Context, input BatchInput) (*domain.BatchRun, error)
}

type batchService struct {
	ingest IngestService
	email  port.EmailSender
	cfg    config.BatchConfig
}

// NewBatchService creates a new BatchService. email may be nil.
func NewBatchService(ingest IngestService, email port.EmailSender, cfg config.BatchConfig) BatchService {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxBatchFiles
	}
	return &batchService{ingest: ingest, email: email, cfg: cfg}
}

// Run validates the call, then processes every file in its own goroutine.
// Outcomes are reported in input order and the call returns only after
// every file has finished. Per-file failures never fail the call.
func (s *batchService) Run(ctx context.Context, in BatchInput) (*domain.BatchRun, error) {
	if len(in.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if len(in.Files) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: maximum %d files allowed per batch", domain.ErrTooManyFiles, s.cfg.MaxFiles)
	}
	mode := in.Mode
	if mode == "" {
		mode = domain.DuplicateModeStrict
	}

	run := &domain.BatchRun{
		BatchID: uuid.New().String(),
		Results: make([]domain.FileOutcome, len(in.Files)),
	}

	var sem chan struct{}
	if s.cfg.Concurrency > 0 {
		sem = make(chan struct{}, s.cfg.Concurrency)
	}

	var wg sync.WaitGroup
	for i := range in.Files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := in.Files[i]
			defer func() {
				if r := recover(); r != nil {
					log.Printf("batchService.Run: panic processing %s: %v", doc.Filename, r)
					run.Results[i] = domain.FileOutcome{
						Filename: doc.Filename,
						Status:   domain.OutcomeError,
						Message:  fmt.Sprintf("Unexpected error: %v", r),
					}
				}
			}()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			run.Results[i] = s.ingest.ProcessFile(ctx, IngestInput{
				OwnerID:  in.OwnerID,
				BatchID:  run.BatchID,
				Mode:     mode,
				Document: doc,
			})
		}(i)
	}
	wg.Wait()

	report := run.Report()
	log.Printf("batchService.Run: batch %s done: %d files, %d successful, %d duplicates, %d failed",
		run.BatchID, report.TotalFiles, report.Successful, report.Duplicates, report.Failed)

	s.sendReport(ctx, in.OwnerEmail, report)
	return run, nil
}

func (s *batchService) sendReport(ctx context.Context, to string, report domain.BatchReport) {
	if s.email == nil || to == "" {
		return
	}
	if err := s.email.SendBatchReport(ctx, to, report); err != nil {
		log.Printf("batchService.sendReport: batch %s to %s: %v", report.BatchID, to, err)
	}
}
