package extractor

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown extracts structure from a Markdown document using the
// goldmark AST. ATX/setext headings become nodes at their markdown level.
func parseMarkdown(path, docID string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	return markdownResult(src, docID), nil
}

func markdownResult(src []byte, docID string) *Result {
	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	// Flatten top-level blocks into paragraphs with heading levels, then
	// reuse the shared span/node assembly.
	var paras []paragraph
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			paras = append(paras, paragraph{
				text:  string(h.Text(src)),
				level: h.Level,
			})
			continue
		}
		if t := blockText(n, src); t != "" {
			paras = append(paras, paragraph{text: t})
		}
	}

	return resultFromParagraphs(paras, docID, "h")
}

// blockText gets the text content of a goldmark AST block node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
			buf.WriteByte('\n')
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
