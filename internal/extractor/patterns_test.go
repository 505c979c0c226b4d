package extractor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHeadingPatternLevel(t *testing.T) {
	cases := []struct {
		line  string
		level int
	}{
		{"1. Introduction", 1},
		{"2.1 Detailed Design", 2},
		{"3.2.1 Edge Cases", 3},
		{"10. Appendix", 1},
		{"PROJECT OVERVIEW", 1},
		{"Executive Summary", 1},
		{"Executive Summary:", 1},
		{"not a heading at all, just a sentence.", 0},
		{"lowercase start", 0},
		{"A very long title case line that runs past the eight word limit here", 0},
	}

	for _, tc := range cases {
		if got := headingPatternLevel(tc.line); got != tc.level {
			t.Errorf("headingPatternLevel(%q) = %d, want %d", tc.line, got, tc.level)
		}
	}
}

func TestPatternNodesSkipsShortLines(t *testing.T) {
	nodes := patternNodes("A\nOK\n1. Scope\nbody text follows here\n", "doc")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Title != "1. Scope" {
		t.Errorf("title = %q", nodes[0].Title)
	}
	if nodes[0].TextSpan != "body text follows here" {
		t.Errorf("span = %q", nodes[0].TextSpan)
	}
}

func TestSpanFromLinesStopsAtNextHeading(t *testing.T) {
	lines := []string{"1. First", "alpha body", "beta body", "2. Second", "gamma body"}
	span := spanFromLines(lines, 0)
	if span != "alpha body beta body" {
		t.Errorf("span = %q", span)
	}
}

func TestSpanFromLinesTruncates(t *testing.T) {
	long := strings.Repeat("x", TextSpanChars+100)
	span := spanFromLines([]string{"1. First", long}, 0)
	if !strings.HasSuffix(span, "...") {
		t.Fatalf("expected truncation marker, got tail %q", span[len(span)-10:])
	}
	if len(span) != TextSpanChars+len("...") {
		t.Errorf("span length = %d, want %d", len(span), TextSpanChars+3)
	}
}

func TestSpanFromLinesTruncatesAtRuneBoundary(t *testing.T) {
	long := "aaaaa " + strings.Repeat("é", TextSpanChars)
	span := spanFromLines([]string{"1. First", long}, 0)
	if !utf8.ValidString(span) {
		t.Fatalf("span is not valid UTF-8: %q", span)
	}
	if !strings.HasSuffix(span, "...") {
		t.Fatal("expected truncation marker")
	}
	if got := utf8.RuneCountInString(span); got != TextSpanChars+3 {
		t.Errorf("span rune count = %d, want %d", got, TextSpanChars+3)
	}
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"héllo", 2, "hé"},
		{"ééé", 2, "éé"},
		{"abc", 0, ""},
		{"abc", -1, ""},
	}
	for _, tc := range cases {
		if got := truncateRunes(tc.s, tc.n); got != tc.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.s, tc.n, got, tc.want)
		}
	}
}
