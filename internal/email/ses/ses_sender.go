package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, cfg *config.EmailConfig) (port.EmailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}, nil
}

func (s *sesSender) SendBatchReport(ctx context.Context, toEmail string, report domain.BatchReport) error {
	subject := ReportSubject(report)
	htmlBody := buildReportHTML(report)
	textBody := buildReportText(report)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// ReportSubject is the subject line of a batch report email.
func ReportSubject(r domain.BatchReport) string {
	return fmt.Sprintf("Resume batch complete: %d of %d processed", r.Successful, r.TotalFiles)
}

func buildReportText(r domain.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s finished.\n\n", r.BatchID)
	fmt.Fprintf(&b, "Total files: %d\nSuccessful: %d\nDuplicates: %d\nFailed: %d\n\n",
		r.TotalFiles, r.Successful, r.Duplicates, r.Failed)
	for _, o := range r.Results {
		fmt.Fprintf(&b, "- %s: %s", o.Filename, o.Status)
		if o.Message != "" {
			fmt.Fprintf(&b, " (%s)", o.Message)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nResumeFlow")
	return b.String()
}

func buildReportHTML(r domain.BatchReport) string {
	var rows strings.Builder
	for _, o := range r.Results {
		fmt.Fprintf(&rows, `    <tr><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px; color: #666;">%s</td></tr>
`, html.EscapeString(o.Filename), html.EscapeString(string(o.Status)), html.EscapeString(o.Message))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Resume batch complete</h2>
  <p>Batch <code>%s</code> finished: %d files, %d successful, %d duplicates, %d failed.</p>
  <table style="border-collapse: collapse; width: 100%%; font-size: 13px;">
    <tr><th align="left">File</th><th align="left">Status</th><th align="left">Details</th></tr>
%s  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">ResumeFlow - Candidate Screening</p>
</body>
</html>`, html.EscapeString(r.BatchID), r.TotalFiles, r.Successful, r.Duplicates, r.Failed, rows.String())
}
