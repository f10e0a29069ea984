// Package export renders candidate listings and shortlists as downloadable
// spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"resumeflow/internal/domain"
)

const (
	SummarySheet = "Summary"
	RankedSheet  = "Ranked Candidates"
)

var rankedColumns = []string{"Rank", "Candidate ID", "Candidate", "Score", "Reasoning", "Strengths", "Weaknesses", "Error"}

// WriteShortlistWorkbook writes an .xlsx with a Summary sheet and a Ranked
// Candidates sheet in shortlist order.
func WriteShortlistWorkbook(w io.Writer, res *domain.ShortlistResult, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: %w", err)
	}
	if _, err := f.NewSheet(RankedSheet); err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: styles: %w", err)
	}
	if err := writeSummary(f, styles, res, generatedAt); err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: summary: %w", err)
	}
	if err := writeRanked(f, styles, res.ShortlistedCandidates); err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: ranked: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.WriteShortlistWorkbook: write: %w", err)
	}
	return nil
}

type styles struct {
	title, label, header, high, mid, low int
}

func newStyles(f *excelize.File) (*styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	}); err != nil {
		return nil, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		})
	}
	if s.high, err = fill("C6EFCE"); err != nil {
		return nil, err
	}
	if s.mid, err = fill("FFEB9C"); err != nil {
		return nil, err
	}
	if s.low, err = fill("FFC7CE"); err != nil {
		return nil, err
	}
	return &s, nil
}

func writeSummary(f *excelize.File, st *styles, res *domain.ShortlistResult, generatedAt time.Time) error {
	sh := SummarySheet
	if err := f.SetColWidth(sh, "A", "A", 26); err != nil {
		return err
	}
	if err := f.SetColWidth(sh, "B", "B", 80); err != nil {
		return err
	}

	if err := f.SetCellValue(sh, "A1", "Candidate Shortlist"); err != nil {
		return err
	}
	if err := f.MergeCell(sh, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A1", "B1", st.title); err != nil {
		return err
	}

	rows := [][2]any{
		{"Generated", generatedAt.UTC().Format("2006-01-02 15:04:05 MST")},
		{"Job Description", res.JobDescription},
		{"Candidates Evaluated", res.TotalCandidates},
		{"Minimum Score", res.MinScore},
		{"Shortlisted", len(res.ShortlistedCandidates)},
		{"Scoring Criteria", res.ScoringCriteria},
	}
	for i, r := range rows {
		row := i + 3
		if err := f.SetCellValue(sh, cell(1, row), r[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, cell(1, row), cell(1, row), st.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sh, cell(2, row), r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeRanked(f *excelize.File, st *styles, scores []domain.CandidateScore) error {
	sh := RankedSheet
	widths := []float64{6, 12, 26, 8, 60, 40, 40, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sh, col, col, w); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sh, "A1", &rankedColumns); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A1", cell(len(rankedColumns), 1), st.header); err != nil {
		return err
	}

	for i, sc := range scores {
		row := i + 2
		values := []any{
			i + 1,
			sc.CandidateID,
			sc.CandidateName,
			sc.Score,
			sc.Reasoning,
			strings.Join(sc.Strengths, "\n"),
			strings.Join(sc.Weaknesses, "\n"),
			sc.Error,
		}
		if err := f.SetSheetRow(sh, cell(1, row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, cell(1, row), cell(len(rankedColumns), row), st.band(sc.Score)); err != nil {
			return err
		}
	}

	return f.SetPanes(sh, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// band picks the row fill: green from 80, amber from 60, red below.
func (s *styles) band(score int) int {
	switch {
	case score >= 80:
		return s.high
	case score >= 60:
		return s.mid
	default:
		return s.low
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
