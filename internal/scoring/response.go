// Package scoring holds the text formats exchanged with the generation
// service when candidates are ranked against a job description.
package scoring

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a response carries no usable SCORE line.
var ErrUnparseable = errors.New("scoring response could not be parsed")

// Evaluation is the parsed assessment of one candidate.
type Evaluation struct {
	Score      int
	Reasoning  string
	Strengths  []string
	Weaknesses []string
}

// ParseFailure is the evaluation recorded when a response is malformed.
func ParseFailure() Evaluation {
	return Evaluation{
		Reasoning:  "Error parsing response",
		Strengths:  []string{},
		Weaknesses: []string{"Could not parse evaluation"},
	}
}

// InfrastructureFailure is the evaluation recorded when no response arrived.
func InfrastructureFailure() Evaluation {
	return Evaluation{
		Reasoning:  "Error occurred during scoring",
		Strengths:  []string{},
		Weaknesses: []string{"Could not evaluate due to technical error"},
	}
}

type block int

const (
	blockNone block = iota
	blockReasoning
	blockStrengths
	blockWeaknesses
)

var firstInt = regexp.MustCompile(`\d+`)

// ParseResponse reads the SCORE / REASONING / STRENGTHS / WEAKNESSES grammar.
// Headings are matched case-insensitively and may carry markdown emphasis.
// The score is the first integer on the SCORE line, clamped to [0,100].
func ParseResponse(text string) (Evaluation, error) {
	ev := Evaluation{Strengths: []string{}, Weaknesses: []string{}}
	var reasoning []string
	scored := false
	current := blockNone

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		item, isItem := bullet(line)
		if label, rest, ok := heading(line); ok && !isItem {
			switch label {
			case "SCORE":
				if m := firstInt.FindString(rest); m != "" && !scored {
					n, err := strconv.Atoi(m)
					if err != nil {
						n = 100
					}
					ev.Score = clamp(n)
					scored = true
				}
				current = blockNone
			case "REASONING":
				current = blockReasoning
				if rest != "" {
					reasoning = append(reasoning, rest)
				}
			case "STRENGTHS":
				current = blockStrengths
			case "WEAKNESSES":
				current = blockWeaknesses
			}
			continue
		}

		switch current {
		case blockReasoning:
			reasoning = append(reasoning, line)
		case blockStrengths:
			if isItem && item != "" {
				ev.Strengths = append(ev.Strengths, item)
			}
		case blockWeaknesses:
			if isItem && item != "" {
				ev.Weaknesses = append(ev.Weaknesses, item)
			}
		}
	}

	if !scored {
		return ParseFailure(), ErrUnparseable
	}
	ev.Reasoning = strings.Join(reasoning, " ")
	return ev, nil
}

var headingLabels = []string{"SCORE", "REASONING", "STRENGTHS", "WEAKNESSES"}

// heading recognises "LABEL:" lines and returns the text after the colon.
func heading(line string) (label, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, "#* ")
	upper := strings.ToUpper(trimmed)
	for _, l := range headingLabels {
		if !strings.HasPrefix(upper, l) {
			continue
		}
		after := strings.TrimLeft(trimmed[len(l):], "* ")
		if !strings.HasPrefix(after, ":") {
			continue
		}
		return l, strings.TrimSpace(strings.Trim(after[1:], "* ")), true
	}
	return "", "", false
}

func bullet(line string) (string, bool) {
	for _, m := range []string{"- ", "* ", "• ", "+ "} {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(line[len(m):]), true
		}
	}
	return "", false
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
