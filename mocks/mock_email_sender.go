package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendBatchReport(ctx context.Context, toEmail string, report domain.BatchReport) error {
	args := m.Called(ctx, toEmail, report)
	return args.Error(0)
}
