package port

import (
	"context"

	"resumeflow/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendBatchReport(ctx context.Context, toEmail string, report domain.BatchReport) error
}
