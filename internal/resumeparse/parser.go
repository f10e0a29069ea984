// Package resumeparse turns the "## Heading" section text produced by the
// extraction prompt into a typed domain.ParsedCandidate.
//
// Parsing is a three-stage state machine: heading detection, content
// accumulation, and section dispatch when the next heading (or the end of
// input) flushes the accumulated lines. Parse never fails; malformed content
// degrades to defaults.
package resumeparse

import (
	"regexp"
	"strconv"
	"strings"

	"resumeflow/internal/domain"
)

// NotFound is the placeholder the extraction prompt uses for missing fields.
const NotFound = "Not found"

type section int

const (
	sectionNone section = iota
	sectionIgnored
	sectionFullName
	sectionEmail
	sectionPhone
	sectionLocation
	sectionEducation
	sectionWorkExperience
	sectionSkills
	sectionYearsExperience
)

// headingRules are checked in order; the first substring hit wins.
var headingRules = []struct {
	needle string
	kind   section
}{
	{"full name", sectionFullName},
	{"email", sectionEmail},
	{"phone", sectionPhone},
	{"location", sectionLocation},
	{"education", sectionEducation},
	{"work experience", sectionWorkExperience},
	{"skills", sectionSkills},
	{"years of experience", sectionYearsExperience},
}

var (
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	digitPattern = regexp.MustCompile(`\d+`)
	listMarkers  = []string{"- ", "* ", "• ", "+ "}
)

// Parse converts section text into a ParsedCandidate.
func Parse(text string) domain.ParsedCandidate {
	out := domain.NewParsedCandidate()

	current := sectionNone
	var body []string

	flush := func() {
		if current != sectionNone && current != sectionIgnored {
			dispatch(&out, current, body)
		}
		body = body[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if title, ok := headingTitle(line); ok {
			flush()
			current = classifyHeading(title)
			continue
		}
		if current != sectionNone {
			body = append(body, line)
		}
	}
	flush()

	out.Skills = NormalizeSkills(out.Skills)
	return out
}

// headingTitle reports whether line is a heading (two or more '#' followed by
// a space) and returns its lowercased title without markdown decoration.
// Content such as "#1 ranked" or "# note" stays in the current section.
func headingTitle(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	rest := strings.TrimLeft(trimmed, "#")
	if len(trimmed)-len(rest) < 2 || !strings.HasPrefix(rest, " ") {
		return "", false
	}
	title := strings.Trim(rest, " \t*:_")
	return strings.ToLower(title), true
}

func classifyHeading(title string) section {
	for _, rule := range headingRules {
		if strings.Contains(title, rule.needle) {
			return rule.kind
		}
	}
	return sectionIgnored
}

func dispatch(out *domain.ParsedCandidate, kind section, lines []string) {
	content := strings.TrimSpace(strings.Join(lines, "\n"))

	switch kind {
	case sectionFullName:
		name := firstLine(content)
		if name == "" || isNotFound(name) {
			name = domain.UnknownCandidateName
		}
		out.FullName = name
	case sectionEmail:
		out.Email = optionalScalar(content)
	case sectionPhone:
		out.Phone = optionalScalar(content)
	case sectionLocation:
		out.Location = optionalScalar(content)
	case sectionEducation:
		out.Education = append(out.Education, parseEducation(lines)...)
	case sectionWorkExperience:
		out.WorkExperience = append(out.WorkExperience, parseWorkExperience(lines)...)
	case sectionSkills:
		out.Skills = append(out.Skills, extractSkills(content)...)
	case sectionYearsExperience:
		out.YearsExperience = parseYears(content)
	}
}

func optionalScalar(content string) string {
	v := firstLine(content)
	if isNotFound(v) {
		return ""
	}
	return v
}

func firstLine(content string) string {
	for _, l := range strings.Split(content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

func isNotFound(s string) bool {
	return strings.EqualFold(strings.TrimRight(strings.TrimSpace(s), "."), NotFound)
}

// listItem strips a leading list marker. ok is false for non-list lines.
func listItem(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range listMarkers {
		if strings.HasPrefix(trimmed, m) {
			return strings.TrimSpace(trimmed[len(m):]), true
		}
	}
	return "", false
}

func splitFields(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func parseEducation(lines []string) []domain.Education {
	entries := []domain.Education{}
	for _, line := range lines {
		item, ok := listItem(line)
		if !ok || item == "" || isNotFound(item) {
			continue
		}
		fields := splitFields(item)
		entries = append(entries, domain.Education{
			Degree:      fieldAt(fields, 0),
			Institution: fieldAt(fields, 1),
			Year:        ExtractYear(fields),
		})
	}
	return entries
}

// ExtractYear returns the first 4-digit year in [1900,2099] found scanning
// fields in order, or "" when none is present.
func ExtractYear(fields []string) string {
	for _, f := range fields {
		if m := yearPattern.FindString(f); m != "" {
			return m
		}
	}
	return ""
}

func parseWorkExperience(lines []string) []domain.WorkExperience {
	entries := []domain.WorkExperience{}
	for _, line := range lines {
		item, ok := listItem(line)
		if !ok || item == "" || isNotFound(item) {
			continue
		}
		fields := strings.SplitN(item, ",", 3)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		entries = append(entries, domain.WorkExperience{
			Company:  fieldAt(fields, 0),
			Position: fieldAt(fields, 1),
			Duration: fieldAt(fields, 2),
		})
	}
	return entries
}

func parseYears(content string) int {
	if content == "" || isNotFound(content) {
		return 0
	}
	if m := digitPattern.FindString(content); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
		return 0
	}
	if n, err := strconv.Atoi(content); err == nil && n >= 0 {
		return n
	}
	return 0
}
