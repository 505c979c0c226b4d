package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/outliner/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// parsePDF extracts structure from a paginated document. The embedded
// outline (bookmark table) is tried first; when the document carries none,
// the pattern fallback runs over the concatenated page text.
func parsePDF(path, docID string) (*Result, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	full := strings.Join(pages, "\n")

	nodes := outlineNodes(reader, pages, docID)
	if len(nodes) == 0 {
		nodes = patternNodes(full, docID)
	}

	return &Result{Nodes: nodes, Text: full}, nil
}

// outlineNodes walks the document's embedded outline tree. Each entry yields
// a node whose level is its nesting depth. The outline format does not carry
// target pages, so the text span comes from the first page containing the
// entry title.
func outlineNodes(reader *pdflib.Reader, pages []string, docID string) []document.HeadingNode {
	var nodes []document.HeadingNode
	i := 0
	var walk func(items []pdflib.Outline, depth int)
	walk = func(items []pdflib.Outline, depth int) {
		for _, item := range items {
			title := strings.TrimSpace(item.Title)
			if title != "" {
				nodes = append(nodes, document.HeadingNode{
					ID:       fmt.Sprintf("%s_toc_%d_%d", docID, i, depth),
					Level:    depth,
					Title:    title,
					TextSpan: pageSpan(pages, title),
					DocID:    docID,
				})
				i++
			}
			walk(item.Child, depth+1)
		}
	}
	walk(reader.Outline().Child, 1)
	return nodes
}

// pageSpan returns the first TextSpanChars characters of the first page
// whose text contains the given title, or empty if no page matches.
func pageSpan(pages []string, title string) string {
	needle := collapseSpaces(strings.ToLower(title))
	for _, page := range pages {
		if !strings.Contains(collapseSpaces(strings.ToLower(page)), needle) {
			continue
		}
		text := strings.TrimSpace(page)
		if utf8.RuneCountInString(text) > TextSpanChars {
			return truncateRunes(text, TextSpanChars) + truncationMark
		}
		return text
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
