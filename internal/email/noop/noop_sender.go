package noop

import (
	"context"
	"log"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs batch reports to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendBatchReport(_ context.Context, toEmail string, report domain.BatchReport) error {
	log.Printf("[NOOP EMAIL] Batch report %s for %s: %d files, %d successful, %d duplicates, %d failed",
		report.BatchID, toEmail, report.TotalFiles, report.Successful, report.Duplicates, report.Failed)
	return nil
}
