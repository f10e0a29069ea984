package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"resumeflow/internal/domain"
)

// BOM is written before CSV output so Excel on Windows detects UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var candidateColumns = []string{
	"Candidate ID",
	"Full Name",
	"Email",
	"Phone",
	"Location",
	"Years of Experience",
	"Status",
	"Skills",
	"Latest Position",
	"Latest Company",
	"Highest Degree",
	"Original Filename",
	"Created At",
	"Updated At",
}

// CandidateWriter writes candidate records as CSV rows.
type CandidateWriter struct {
	csv *csv.Writer
}

// NewCandidateWriter creates a CandidateWriter that writes to w.
func NewCandidateWriter(w io.Writer) *CandidateWriter {
	return &CandidateWriter{csv: csv.NewWriter(w)}
}

func (w *CandidateWriter) WriteHeader() error {
	return w.csv.Write(candidateColumns)
}

func (w *CandidateWriter) WriteCandidates(cands []domain.Candidate) error {
	for i := range cands {
		if err := w.csv.Write(candidateRow(&cands[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered rows and returns any write error.
func (w *CandidateWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func candidateRow(c *domain.Candidate) []string {
	row := make([]string, len(candidateColumns))
	row[0] = strconv.FormatInt(c.ID, 10)
	row[1] = c.FullName
	row[2] = c.Email
	row[3] = c.Phone
	row[4] = c.Location
	row[5] = strconv.Itoa(c.YearsExperience)
	row[6] = string(c.Status)
	row[7] = strings.Join(c.Skills, "; ")
	if len(c.WorkExperience) > 0 {
		row[8] = c.WorkExperience[0].Position
		row[9] = c.WorkExperience[0].Company
	}
	if len(c.Education) > 0 {
		row[10] = c.Education[0].Degree
	}
	row[11] = c.OriginalFilename
	row[12] = c.CreatedAt.Format(time.RFC3339)
	row[13] = c.UpdatedAt.Format(time.RFC3339)
	return row
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces anything but letters, digits, '-' and '_' with
// '_', collapses runs of '_' and truncates to 100 characters.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized base}_{YYYY-MM-DD}.{ext} for a
// Content-Disposition header.
func BuildFilename(base, ext string, at time.Time) string {
	s := SanitizeFilename(base)
	if s == "" {
		s = "export"
	}
	return fmt.Sprintf("%s_%s.%s", s, at.Format("2006-01-02"), ext)
}
