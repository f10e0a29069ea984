package resumeparse_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"resumeflow/internal/resumeparse"
)

func skillsOf(body string) []string {
	return resumeparse.Parse("## Skills\n" + body + "\n").Skills
}

func TestSkills_ListLines(t *testing.T) {
	got := skillsOf("- Go, Rust\n* Docker\n• Kubernetes\nstray prose line")

	assert.Equal(t, []string{"Go", "Rust", "Docker", "Kubernetes"}, got)
}

func TestSkills_CommaAndNewlineSeparated(t *testing.T) {
	got := skillsOf("Python, JavaScript\nLeadership")

	assert.Equal(t, []string{"Python", "JavaScript", "Leadership"}, got)
}

func TestSkills_ProseSplitsAtCapitalisedWords(t *testing.T) {
	got := skillsOf("Project management Go programming SQL")

	assert.Equal(t, []string{"Project management", "Go programming", "SQL"}, got)
}

func TestSkills_ProseFallsBackToWordPairs(t *testing.T) {
	got := skillsOf("Docker Kubernetes Terraform")

	assert.Equal(t, []string{"Docker Kubernetes", "Terraform"}, got)
}

func TestNormalizeSkills_SecondaryDelimiters(t *testing.T) {
	got := resumeparse.NormalizeSkills([]string{"Frontend frameworks React and Vue / Angular"})

	assert.Equal(t, []string{"Frontend frameworks React", "Vue", "Angular"}, got)
}

func TestNormalizeSkills_OversizedSkillIsChunked(t *testing.T) {
	long := "Strong experience building distributed systems"
	assert.Greater(t, utf8.RuneCountInString(long), 30)

	got := resumeparse.NormalizeSkills([]string{long})

	assert.Equal(t, []string{"Strong experience", "building distributed", "systems"}, got)
	for _, s := range got {
		assert.LessOrEqual(t, len(strings.Fields(s)), 3)
	}
}

func TestNormalizeSkills_DedupesKeepingFirst(t *testing.T) {
	got := resumeparse.NormalizeSkills([]string{"Go", " SQL ", "Go", "", "go"})

	assert.Equal(t, []string{"Go", "SQL", "go"}, got)
}

func TestNormalizeSkills_NeverNil(t *testing.T) {
	assert.NotNil(t, resumeparse.NormalizeSkills(nil))
}
