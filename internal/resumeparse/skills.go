package resumeparse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSkillChars = 30
	maxSkillWords = 3
)

var secondarySkillDelims = regexp.MustCompile(`,|\s+and\s+|\s+&\s+|\s*\|\s*|\s*/\s*`)

// extractSkills applies the first matching strategy: list lines, comma
// separated text, then prose chunking.
func extractSkills(content string) []string {
	text := strings.TrimSpace(strings.ReplaceAll(content, NotFound, ""))
	if text == "" {
		return []string{}
	}

	var items []string
	for _, line := range strings.Split(text, "\n") {
		if item, ok := listItem(line); ok {
			items = append(items, item)
		}
	}
	if len(items) > 0 {
		skills := []string{}
		for _, item := range items {
			skills = appendNonEmpty(skills, strings.Split(item, ",")...)
		}
		return skills
	}

	if strings.Contains(text, ",") {
		return appendNonEmpty([]string{}, strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == '\n'
		})...)
	}

	return chunkProse(text)
}

// chunkProse splits comma-free text at capitalised or numeric words. When
// that yields a single fragment, or only single-word fragments, the words are
// grouped in pairs instead.
func chunkProse(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	var fragments [][]string
	for i, w := range words {
		if i == 0 || startsUpperOrDigit(w) {
			fragments = append(fragments, []string{w})
			continue
		}
		last := len(fragments) - 1
		fragments[last] = append(fragments[last], w)
	}

	multiWord := false
	for _, f := range fragments {
		if len(f) >= 2 {
			multiWord = true
			break
		}
	}
	if len(fragments) <= 1 || !multiWord {
		return wordPairs(words)
	}

	skills := make([]string, 0, len(fragments))
	for _, f := range fragments {
		skills = append(skills, strings.Join(f, " "))
	}
	return skills
}

func startsUpperOrDigit(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

func wordPairs(words []string) []string {
	pairs := make([]string, 0, (len(words)+1)/2)
	for i := 0; i < len(words); i += 2 {
		if i+1 < len(words) {
			pairs = append(pairs, words[i]+" "+words[i+1])
		} else {
			pairs = append(pairs, words[i])
		}
	}
	return pairs
}

func oversized(skill string) bool {
	return utf8.RuneCountInString(skill) > maxSkillChars || len(strings.Fields(skill)) > maxSkillWords
}

// NormalizeSkills re-splits oversized skills on secondary delimiters, breaks
// anything still oversized into word pairs, and removes exact duplicates
// keeping the first occurrence. The result is never nil.
func NormalizeSkills(skills []string) []string {
	processed := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if !oversized(skill) {
			processed = append(processed, skill)
			continue
		}
		for _, sub := range secondarySkillDelims.Split(skill, -1) {
			sub = strings.TrimSpace(sub)
			switch {
			case sub == "":
			case oversized(sub):
				processed = append(processed, wordPairs(strings.Fields(sub))...)
			default:
				processed = append(processed, sub)
			}
		}
	}

	seen := make(map[string]struct{}, len(processed))
	out := make([]string, 0, len(processed))
	for _, s := range processed {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func appendNonEmpty(dst []string, parts ...string) []string {
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dst = append(dst, p)
		}
	}
	return dst
}
