package services

import (
	"regexp"
	"strings"
)

// QnAItem is one extracted question/answer pair. Derived at render time,
// never persisted.
type QnAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Section boundary predicates. ExtractQnA and RemoveQnASection must
// agree on where the section starts and ends or their outputs diverge,
// so both use exactly these.
var (
	subHeadingRe = regexp.MustCompile(`^#{2,3}\s`)
	qnaMarkerRe  = regexp.MustCompile(`(?i)q&?a|faq|질문`)
)

func isSubHeading(line string) bool {
	return subHeadingRe.MatchString(line)
}

// isQnAHeading matches a level 2 or 3 heading marking the Q&A section.
// Leading bold markers around the marker text are fine.
func isQnAHeading(line string) bool {
	return isSubHeading(line) && qnaMarkerRe.MatchString(line)
}

// isSectionEnd matches the lines that close the Q&A section: a divider
// or a sub-heading that is not itself another Q&A marker.
func isSectionEnd(line string) bool {
	if line == "---" {
		return true
	}
	return isSubHeading(line) && !isQnAHeading(line)
}

// isQuestionLine matches the supported question notations: bold-Q or
// plain-Q prefixed lines, toggle-arrow lines and bulleted lines that are
// not themselves answers.
func isQuestionLine(line string) bool {
	if strings.HasPrefix(line, "**Q.") || strings.HasPrefix(line, "Q.") {
		return true
	}
	if strings.HasPrefix(line, "▶ ") {
		return true
	}
	if strings.HasPrefix(line, "- ") {
		return !strings.HasPrefix(strings.TrimSpace(line[2:]), "A.")
	}
	return false
}

func isAnswerLine(line string) bool {
	if strings.HasPrefix(line, "A.") {
		return true
	}
	return strings.HasPrefix(line, "- ") && strings.HasPrefix(strings.TrimSpace(line[2:]), "A.")
}

var (
	questionMarkerRe = regexp.MustCompile(`^(?:\*\*)?Q\.\s*`)
	answerMarkerRe   = regexp.MustCompile(`^A\.\s*`)
)

func cleanQuestion(line string) string {
	line = strings.TrimPrefix(line, "▶ ")
	line = strings.TrimPrefix(line, "- ")
	line = questionMarkerRe.ReplaceAllString(line, "")
	line = strings.TrimSuffix(line, "**")
	return strings.TrimSpace(line)
}

func cleanAnswer(line string) string {
	line = strings.TrimPrefix(line, "- ")
	line = answerMarkerRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// ExtractQnA scans the post body for a Q&A section and returns its
// question/answer pairs in source order. A document has at most one Q&A
// section per pass; the scan ends at the first section boundary.
func ExtractQnA(content string) []QnAItem {
	lines := strings.Split(content, "\n")

	var items []QnAItem
	var question, answer string
	flush := func() {
		if question != "" && answer != "" {
			items = append(items, QnAItem{Question: question, Answer: answer})
		}
		question, answer = "", ""
	}

	inside := false
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if !inside {
			if isQnAHeading(line) {
				inside = true
			}
			i++
			continue
		}

		if isSectionEnd(line) {
			break
		}

		switch {
		case isQuestionLine(line):
			flush()
			question = cleanQuestion(line)
			i++
		case isAnswerLine(line):
			answer, i = consumeAnswer(lines, i)
		default:
			i++
		}
	}
	flush()
	return items
}

// consumeAnswer reads an answer starting at the "A." line and absorbs
// continuation lines. A blank line only ends the answer when the next
// non-blank line starts a new question or closes the section; otherwise
// the answer continues across the blank-line paragraph break.
func consumeAnswer(lines []string, start int) (string, int) {
	answer := cleanAnswer(strings.TrimSpace(lines[start]))

	i := start + 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if line == "" {
			k := i
			for k < len(lines) && strings.TrimSpace(lines[k]) == "" {
				k++
			}
			if k >= len(lines) {
				return answer, k
			}
			peek := strings.TrimSpace(lines[k])
			if isQuestionLine(peek) || isAnswerLine(peek) || isSectionEnd(peek) {
				return answer, k
			}
			i = k
			continue
		}

		if isQuestionLine(line) || isSectionEnd(line) {
			return answer, i
		}
		answer += " " + line
		i++
	}
	return answer, i
}

// RemoveQnASection returns the body with the Q&A span dropped entirely,
// its closing divider included, so the section can be re-rendered as an
// accordion without appearing twice.
func RemoveQnASection(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	inside := false
	removed := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if !inside {
			if !removed && isQnAHeading(line) {
				inside = true
				removed = true
				continue
			}
			out = append(out, raw)
			continue
		}

		if line == "---" {
			inside = false
			continue
		}
		if isSubHeading(line) && !isQnAHeading(line) {
			inside = false
			out = append(out, raw)
		}
	}
	return strings.Join(out, "\n")
}
