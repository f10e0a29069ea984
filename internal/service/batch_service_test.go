package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/port"
	"resumeflow/internal/service"
	"resumeflow/mocks"
)

type ingestFunc func(ctx context.Context, in service.IngestInput) domain.FileOutcome

func (f ingestFunc) ProcessFile(ctx context.Context, in service.IngestInput) domain.FileOutcome {
	return f(ctx, in)
}

func docs(names ...string) []port.RawDocument {
	out := make([]port.RawDocument, len(names))
	for i, n := range names {
		out[i] = port.RawDocument{Filename: n, Data: []byte(n)}
	}
	return out
}

func TestBatch_RejectsEmptyAndOversizedBatches(t *testing.T) {
	svc := service.NewBatchService(ingestFunc(nil), nil, config.BatchConfig{MaxFiles: 2})

	_, err := svc.Run(context.Background(), service.BatchInput{})
	assert.ErrorIs(t, err, domain.ErrNoFiles)

	_, err = svc.Run(context.Background(), service.BatchInput{Files: docs("a.txt", "b.txt", "c.txt")})
	assert.ErrorIs(t, err, domain.ErrTooManyFiles)
	assert.Contains(t, err.Error(), "maximum 2 files allowed per batch")
}

func TestBatch_OutcomesKeepInputOrder(t *testing.T) {
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		// Earlier files finish last.
		switch in.Document.Filename {
		case "1.pdf":
			time.Sleep(30 * time.Millisecond)
		case "2.pdf":
			time.Sleep(15 * time.Millisecond)
			return domain.FileOutcome{Filename: "2.pdf", Status: domain.OutcomeError, Message: "Error extracting text: corrupt"}
		}
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	svc := service.NewBatchService(ingest, nil, config.BatchConfig{})

	run, err := svc.Run(context.Background(), service.BatchInput{Files: docs("1.pdf", "2.pdf", "3.pdf")})

	require.NoError(t, err)
	require.Len(t, run.Results, 3)
	assert.Equal(t, "1.pdf", run.Results[0].Filename)
	assert.Equal(t, "2.pdf", run.Results[1].Filename)
	assert.Equal(t, domain.OutcomeError, run.Results[1].Status)
	assert.Equal(t, "3.pdf", run.Results[2].Filename)

	report := run.Report()
	assert.Equal(t, 3, report.TotalFiles)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
}

func TestBatch_SharesBatchIDAndDefaultsToStrict(t *testing.T) {
	owner := uuid.New()
	var seen []service.IngestInput
	seenCh := make(chan service.IngestInput, 2)
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		seenCh <- in
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	svc := service.NewBatchService(ingest, nil, config.BatchConfig{})

	run, err := svc.Run(context.Background(), service.BatchInput{OwnerID: owner, Files: docs("a.txt", "b.txt")})
	require.NoError(t, err)
	close(seenCh)
	for in := range seenCh {
		seen = append(seen, in)
	}

	require.Len(t, seen, 2)
	for _, in := range seen {
		assert.Equal(t, run.BatchID, in.BatchID)
		assert.Equal(t, owner, in.OwnerID)
		assert.Equal(t, domain.DuplicateModeStrict, in.Mode)
	}
}

func TestBatch_PanicBecomesErrorOutcome(t *testing.T) {
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		if in.Document.Filename == "boom.pdf" {
			panic("nil map write")
		}
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	svc := service.NewBatchService(ingest, nil, config.BatchConfig{})

	run, err := svc.Run(context.Background(), service.BatchInput{Files: docs("ok.pdf", "boom.pdf")})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSuccess, run.Results[0].Status)
	assert.Equal(t, domain.FileOutcome{
		Filename: "boom.pdf",
		Status:   domain.OutcomeError,
		Message:  "Unexpected error: nil map write",
	}, run.Results[1])
}

func TestBatch_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	svc := service.NewBatchService(ingest, nil, config.BatchConfig{Concurrency: 2})

	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf("%d.txt", i)
	}
	run, err := svc.Run(context.Background(), service.BatchInput{Files: docs(names...)})

	require.NoError(t, err)
	assert.Len(t, run.Results, 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestBatch_SendsReportEmail(t *testing.T) {
	emailer := new(mocks.MockEmailSender)
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeDuplicate}
	})
	emailer.On("SendBatchReport", mock.Anything, "recruiter@example.com",
		mock.MatchedBy(func(r domain.BatchReport) bool { return r.TotalFiles == 1 && r.Duplicates == 1 })).
		Return(nil)
	svc := service.NewBatchService(ingest, emailer, config.BatchConfig{})

	_, err := svc.Run(context.Background(), service.BatchInput{OwnerEmail: "recruiter@example.com", Files: docs("a.txt")})

	require.NoError(t, err)
	emailer.AssertExpectations(t)
}

func TestBatch_EmailFailureDoesNotFailRun(t *testing.T) {
	emailer := new(mocks.MockEmailSender)
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	emailer.On("SendBatchReport", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("ses throttled"))
	svc := service.NewBatchService(ingest, emailer, config.BatchConfig{})

	run, err := svc.Run(context.Background(), service.BatchInput{OwnerEmail: "r@example.com", Files: docs("a.txt")})

	require.NoError(t, err)
	assert.Len(t, run.Results, 1)
}

func TestBatch_NoEmailWithoutRecipient(t *testing.T) {
	emailer := new(mocks.MockEmailSender)
	ingest := ingestFunc(func(_ context.Context, in service.IngestInput) domain.FileOutcome {
		return domain.FileOutcome{Filename: in.Document.Filename, Status: domain.OutcomeSuccess}
	})
	svc := service.NewBatchService(ingest, emailer, config.BatchConfig{})

	_, err := svc.Run(context.Background(), service.BatchInput{Files: docs("a.txt")})

	require.NoError(t, err)
	emailer.AssertNotCalled(t, "SendBatchReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatch_ForwardsOwnerAndModeToEveryFile(t *testing.T) {
	ingest := new(mocks.MockIngestService)
	ownerID := uuid.New()

	ingest.On("ProcessFile", mock.Anything, mock.MatchedBy(func(in service.IngestInput) bool {
		return in.OwnerID == ownerID && in.Mode == domain.DuplicateModeAllowAll && in.BatchID != ""
	})).Return(domain.FileOutcome{Status: domain.OutcomeSuccess, Action: domain.UpsertActionCreated}).Twice()

	svc := service.NewBatchService(ingest, nil, config.BatchConfig{})
	run, err := svc.Run(context.Background(), service.BatchInput{
		OwnerID: ownerID,
		Mode:    domain.DuplicateModeAllowAll,
		Files:   docs("a.txt", "b.txt"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, run.Report().Successful)
	ingest.AssertExpectations(t)
}
