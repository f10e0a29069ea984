package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/domain"
	"resumeflow/internal/export"
)

func TestCandidateWriter(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cands := []domain.Candidate{
		{
			ID: 12, FullName: "Jane Doe", Email: "jane@example.com", YearsExperience: 6,
			Status: domain.CandidateStatusShortlisted, Skills: []string{"Go", "SQL"},
			WorkExperience: []domain.WorkExperience{{Company: "Acme", Position: "Engineer"}},
			Education:      []domain.Education{{Degree: "BSc"}},
			CreatedAt:      created, UpdatedAt: created,
		},
		{ID: 13, FullName: "Unknown", Status: domain.CandidateStatusPending, CreatedAt: created, UpdatedAt: created},
	}
	var buf bytes.Buffer
	w := export.NewCandidateWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteCandidates(cands))
	require.NoError(t, w.Flush())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Candidate ID", rows[0][0])
	assert.Len(t, rows[0], 14)
	assert.Equal(t, []string{
		"12", "Jane Doe", "jane@example.com", "", "", "6", "shortlisted", "Go; SQL",
		"Engineer", "Acme", "BSc", "", "2024-01-02T03:04:05Z", "2024-01-02T03:04:05Z",
	}, rows[1])
	assert.Equal(t, "", rows[2][8])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Senior_Go_Engineer", export.SanitizeFilename("Senior Go Engineer!!"))
	assert.Equal(t, "a_b", export.SanitizeFilename("__a / b__"))
	assert.Len(t, export.SanitizeFilename(string(bytes.Repeat([]byte("x"), 150))), 100)
}

func TestBuildFilename(t *testing.T) {
	at := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "candidates_2024-05-06.csv", export.BuildFilename("candidates", "csv", at))
	assert.Equal(t, "export_2024-05-06.xlsx", export.BuildFilename("???", "xlsx", at))
}
