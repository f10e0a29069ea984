package resumeparse

import (
	"strconv"
	"strings"

	"resumeflow/internal/domain"
)

// Render writes p in the section grammar accepted by Parse. For data that
// Parse produced, Parse(Render(p)) yields p again.
func Render(p domain.ParsedCandidate) string {
	var b strings.Builder

	writeSection(&b, "Full Name", orNotFound(p.FullName))
	writeSection(&b, "Email Address", orNotFound(p.Email))
	writeSection(&b, "Phone Number", orNotFound(p.Phone))
	writeSection(&b, "Location", orNotFound(p.Location))

	b.WriteString("## Education\n")
	if len(p.Education) == 0 {
		b.WriteString(NotFound + "\n")
	}
	for _, e := range p.Education {
		b.WriteString("- " + e.Degree + ", " + e.Institution + ", " + e.Year + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Work Experience\n")
	if len(p.WorkExperience) == 0 {
		b.WriteString(NotFound + "\n")
	}
	for _, w := range p.WorkExperience {
		b.WriteString("- " + w.Company + ", " + w.Position + ", " + w.Duration + "\n")
	}
	b.WriteString("\n")

	// One skill per list line keeps multi-word skills intact on re-parse.
	b.WriteString("## Skills\n")
	if len(p.Skills) == 0 {
		b.WriteString(NotFound + "\n")
	}
	for _, s := range p.Skills {
		b.WriteString("- " + s + "\n")
	}
	b.WriteString("\n")

	writeSection(&b, "Years of Experience", strconv.Itoa(p.YearsExperience))

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

func orNotFound(s string) string {
	if s == "" {
		return NotFound
	}
	return s
}
