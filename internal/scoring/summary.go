package scoring

import (
	"fmt"
	"strings"

	"resumeflow/internal/domain"
)

const unknown = "Unknown"

// NoCandidatesCriteria is reported when the owner has no candidates to rank.
const NoCandidatesCriteria = "No candidates found in database"

// Summary renders the profile text sent to the generation service.
func Summary(c *domain.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Candidate: %s\n", c.FullName)
	fmt.Fprintf(&b, "Years of Experience: %d\n", c.YearsExperience)
	fmt.Fprintf(&b, "Location: %s\n\n", or(c.Location))

	b.WriteString("Education:\n")
	for _, e := range c.Education {
		fmt.Fprintf(&b, "- %s from %s (%s)\n", or(e.Degree), or(e.Institution), or(e.Year))
	}

	b.WriteString("\nSkills:\n")
	b.WriteString(strings.Join(c.Skills, ", "))
	b.WriteString("\n")

	b.WriteString("\nWork Experience:\n")
	for _, w := range c.WorkExperience {
		fmt.Fprintf(&b, "- %s at %s (%s)\n", or(w.Position), or(w.Company), or(w.Duration))
	}

	return b.String()
}

// Criteria describes the weighting communicated to the evaluator.
func Criteria(minScore int) string {
	return fmt.Sprintf(`Scoring Criteria:
- Technical Skills Match (30%%)
- Experience Level and Relevance (25%%)
- Education Background (15%%)
- Industry Experience (20%%)
- Overall Fit (10%%)

Minimum Score: %d/100
`, minScore)
}

func or(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
