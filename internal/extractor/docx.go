package extractor

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/outliner/internal/document"
	"github.com/fumiama/go-docx"
)

// paragraph is a flattened document paragraph; level 0 means body text.
type paragraph struct {
	text  string
	level int
}

// parseDOCX extracts structure from a word-processing document. Paragraphs
// carrying a "Heading N" style become nodes; when the document has no styled
// headings at all, the pattern fallback runs over the plain text.
func parseDOCX(path, docID string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paras []paragraph
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		paras = append(paras, paragraph{
			text:  docxParagraphText(p),
			level: docxHeadingLevel(p),
		})
	}

	return resultFromParagraphs(paras, docID, "h"), nil
}

// resultFromParagraphs turns flattened paragraphs into a Result. It is shared
// by the docx and html parsers, which both reduce their input to a paragraph
// sequence with heading levels.
func resultFromParagraphs(paras []paragraph, docID, idTag string) *Result {
	var full strings.Builder
	for _, pr := range paras {
		if pr.text == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString("\n")
		}
		full.WriteString(pr.text)
	}
	text := full.String()

	var nodes []document.HeadingNode
	for i, pr := range paras {
		if pr.level == 0 || pr.text == "" {
			continue
		}
		nodes = append(nodes, document.HeadingNode{
			ID:       fmt.Sprintf("%s_%s%d_%d", docID, idTag, i, pr.level),
			Level:    pr.level,
			Title:    pr.text,
			TextSpan: paragraphSpan(paras, i),
			DocID:    docID,
		})
	}

	if len(nodes) == 0 {
		nodes = patternNodes(text, docID)
	}

	return &Result{Nodes: nodes, Text: text}
}

// paragraphSpan joins the non-heading paragraphs following paras[headingIdx]
// up to the span budget, stopping at the next heading.
func paragraphSpan(paras []paragraph, headingIdx int) string {
	var parts []string
	count := 0
	for i := headingIdx + 1; i < len(paras); i++ {
		if paras[i].level > 0 {
			break
		}
		text := paras[i].text
		if text == "" {
			continue
		}
		n := utf8.RuneCountInString(text)
		if count+n > TextSpanChars {
			parts = append(parts, truncateRunes(text, TextSpanChars-count)+truncationMark)
			break
		}
		parts = append(parts, text)
		count += n
	}
	return strings.Join(parts, " ")
}

// docxHeadingLevel returns the heading level of a paragraph's style, or 0 for
// body text. The level is the integer suffix of the style name; a heading
// style without a number counts as level 1.
func docxHeadingLevel(p *docx.Paragraph) int {
	if p.Properties == nil || p.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.TrimSpace(p.Properties.Style.Val))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	if m := numberGroupRe.FindString(style); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// docxParagraphText concatenates the text runs of a paragraph.
func docxParagraphText(p *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
