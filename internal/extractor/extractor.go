package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/document"
)

var (
	// ErrNotFound indicates the input document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnsupportedFormat indicates the file extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// TextSpanChars is the character budget for the text collected after a heading.
const TextSpanChars = 500

const truncationMark = "..."

// Result holds everything extracted from one document: the ordered heading
// nodes and the full plain text (used for chunking and requirements loading).
type Result struct {
	Nodes []document.HeadingNode
	Text  string
}

// Headings returns the node titles in document order.
func (r *Result) Headings() []string {
	if len(r.Nodes) == 0 {
		return nil
	}
	titles := make([]string, len(r.Nodes))
	for i, n := range r.Nodes {
		titles[i] = n.Title
	}
	return titles
}

// SupportedExtensions lists file extensions this extractor can handle.
var SupportedExtensions = map[string]bool{
	".docx":     true,
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".txt":      true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract parses the document at path into heading nodes and plain text.
// Dispatch is by file extension. A document in which no strategy finds any
// heading yields an empty node list, not an error.
func Extract(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))
	docID := strings.TrimSuffix(base, filepath.Ext(base))
	switch ext {
	case ".docx":
		return parseDOCX(path, docID)
	case ".pdf":
		return parsePDF(path, docID)
	case ".md", ".markdown":
		return parseMarkdown(path, docID)
	case ".html", ".htm":
		return parseHTML(path, docID)
	case ".txt":
		return parseText(path, docID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
