package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/outliner/internal/document"
)

// Heading patterns used when no structural markup is available.
var (
	numberedHeadingRe  = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+.+`)
	allCapsHeadingRe   = regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`)
	titleCaseHeadingRe = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*:?$`)
	numberGroupRe      = regexp.MustCompile(`\d+`)
)

// headingPatternLevel reports the heading level a line matches, or 0 if the
// line does not look like a heading. Numbered headings take their level from
// the number of numeric groups ("2.1.3 Title" is level 3).
func headingPatternLevel(line string) int {
	if numberedHeadingRe.MatchString(line) {
		prefix := strings.Fields(line)[0]
		return len(numberGroupRe.FindAllString(prefix, -1))
	}
	if allCapsHeadingRe.MatchString(line) {
		return 1
	}
	if titleCaseHeadingRe.MatchString(line) && len(strings.Fields(line)) <= 8 {
		return 1
	}
	return 0
}

// patternNodes scans text line by line for heading-like lines. It is the
// fallback strategy shared by all formats.
func patternNodes(text, docID string) []document.HeadingNode {
	lines := strings.Split(text, "\n")
	var nodes []document.HeadingNode
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < 3 {
			continue
		}
		level := headingPatternLevel(line)
		if level == 0 {
			continue
		}
		nodes = append(nodes, document.HeadingNode{
			ID:       fmt.Sprintf("%s_regex_%d_%d", docID, i, level),
			Level:    level,
			Title:    line,
			TextSpan: spanFromLines(lines, i),
			DocID:    docID,
		})
	}
	return nodes
}

// spanFromLines collects the text following a heading line, stopping at the
// next heading-like line or when the span budget is exhausted.
func spanFromLines(lines []string, headingIdx int) string {
	var parts []string
	count := 0
	for i := headingIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if headingPatternLevel(line) > 0 {
			break
		}
		n := utf8.RuneCountInString(line)
		if count+n > TextSpanChars {
			parts = append(parts, truncateRunes(line, TextSpanChars-count)+truncationMark)
			break
		}
		parts = append(parts, line)
		count += n
	}
	return strings.Join(parts, " ")
}

// truncateRunes cuts s to at most n runes. The budget counts characters, so
// cutting by bytes could split a multi-byte rune and corrupt the span.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
