package extractor

import (
	"fmt"
	"os"
)

// parseText handles plain text files. Only the pattern-based strategy
// applies: there is no structural markup to read.
func parseText(path, docID string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := string(data)
	return &Result{Nodes: patternNodes(text, docID), Text: text}, nil
}
