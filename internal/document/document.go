package document

// HeadingNode is one structural unit extracted from a source document:
// a heading plus the text that follows it.
type HeadingNode struct {
	ID       string `json:"id"`        // Stable within one extraction run.
	Level    int    `json:"level"`     // 1 = top-level section.
	Title    string `json:"title"`     // Raw heading text, never empty.
	TextSpan string `json:"text_span"` // Trailing text, truncated to a budget.
	DocID    string `json:"doc_id"`    // Owning document, e.g. its filename.
}

// EmbedText is the text submitted to the embedder for this node. The title
// carries most of the signal; the span adds context.
func (n HeadingNode) EmbedText() string {
	return n.Title + "\n" + n.TextSpan
}

// NodeRecord is a HeadingNode as stored in the index metadata sidecar.
// VectorID is the row of the matching vector inside the index.
type NodeRecord struct {
	HeadingNode
	VectorID int `json:"vector_id"`
}

// Chunk is an overlapping slice of raw document text used for
// fine-grained retrieval, independent of heading structure.
type Chunk struct {
	Text            string `json:"text"`
	SourceFile      string `json:"source_file"`
	ChunkIndex      int    `json:"chunk_index"`  // Dense 0-based sequence per document.
	TotalChunks     int    `json:"total_chunks"`
	RelevantHeading string `json:"relevant_heading"` // Nearest preceding heading, or empty.
	WordCount       int    `json:"word_count"`
}

// ChunkRecord is a Chunk as stored in the chunk index metadata sidecar.
type ChunkRecord struct {
	Chunk
	VectorID int `json:"vector_id"`
}
