package outline

import (
	"encoding/json"
	"fmt"
	"os"
)

// Section is one heading in a suggested outline. Every subsection's level is
// strictly greater than its parent's level.
type Section struct {
	Title            string     `json:"title"`
	Level            int        `json:"level"`
	SourceSimilarity float64    `json:"source_similarity"`
	Frequency        int        `json:"frequency"` // Count of duplicate headings merged into this one.
	Subsections      []*Section `json:"subsections"`
}

// Metadata records how an outline was generated.
type Metadata struct {
	SourceDocuments      []string `json:"source_documents"`
	TotalNodesConsidered int      `json:"total_nodes_considered"`
	GenerationMethod     string   `json:"generation_method"`
}

// Outline is a hierarchical section proposal. Its JSON form is the sole
// interchange contract with downstream editors and renderers.
type Outline struct {
	Title    string     `json:"title"`
	Sections []*Section `json:"sections"`
	Metadata Metadata   `json:"metadata"`
}

// Save writes the outline as indented JSON.
func (o *Outline) Save(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	return nil
}

// Load reads an outline previously written by Save (or by an editor that
// preserved the interchange shape).
func Load(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outline: %w", err)
	}
	var o Outline
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	return &o, nil
}
