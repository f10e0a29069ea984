package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumeflow/internal/domain"
)

func sampleReport() domain.BatchReport {
	return domain.BatchReport{
		BatchID:    "b-42",
		TotalFiles: 2,
		Successful: 1,
		Failed:     1,
		Results: []domain.FileOutcome{
			{Filename: "jane.pdf", Status: domain.OutcomeSuccess, Message: "Successfully processed"},
			{Filename: "<script>.pdf", Status: domain.OutcomeError, Message: "Error extracting text: bad"},
		},
	}
}

func TestReportSubject(t *testing.T) {
	assert.Equal(t, "Resume batch complete: 1 of 2 processed", ReportSubject(sampleReport()))
}

func TestBuildReportText(t *testing.T) {
	body := buildReportText(sampleReport())

	assert.Contains(t, body, "Batch b-42 finished.")
	assert.Contains(t, body, "Successful: 1\nDuplicates: 0\nFailed: 1")
	assert.Contains(t, body, "- jane.pdf: success (Successfully processed)")
}

func TestBuildReportHTMLEscapesFilenames(t *testing.T) {
	body := buildReportHTML(sampleReport())

	assert.Contains(t, body, "&lt;script&gt;.pdf")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "2 files, 1 successful, 0 duplicates, 1 failed")
}
