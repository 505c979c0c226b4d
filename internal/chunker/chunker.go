package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/outliner/internal/document"
)

// Config controls chunk sizing.
type Config struct {
	ChunkSize    int // Target chunk size in characters.
	ChunkOverlap int // Overlap between consecutive chunks in characters.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

// Splitter breaks document text into overlapping chunks. Boundaries favor
// natural breaks: separators are tried in order of preference (paragraph
// break, line break, space, character) and pieces that still exceed the
// chunk size are split recursively with the next separator. Splitting is
// deterministic for identical input and configuration.
type Splitter struct {
	cfg        Config
	separators []string
}

// New creates a Splitter, clamping nonsensical configuration to defaults.
func New(cfg Config) *Splitter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 5
	}
	return &Splitter{
		cfg:        cfg,
		separators: []string{"\n\n", "\n", " ", ""},
	}
}

// Split chunks text and tags each chunk with the nearest preceding heading.
// headings must be in document order; sourceFile identifies the document.
func (s *Splitter) Split(text, sourceFile string, headings []string) []document.Chunk {
	pieces := s.splitText(text, s.separators)
	chunks := make([]document.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, document.Chunk{
			Text:            piece,
			SourceFile:      sourceFile,
			ChunkIndex:      i,
			TotalChunks:     len(pieces),
			RelevantHeading: relevantHeading(piece, headings, text),
			WordCount:       len(strings.Fields(piece)),
		})
	}
	return chunks
}

// splitText recursively splits text with the first separator present in it,
// merging small pieces back up to the chunk size with overlap.
func (s *Splitter) splitText(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var next []string
	for i, sp := range separators {
		if sp == "" || strings.Contains(text, sp) {
			sep = sp
			next = separators[i+1:]
			break
		}
	}

	var final []string
	var good []string
	for _, part := range strings.Split(text, sep) {
		if part == "" {
			continue
		}
		if len(part) < s.cfg.ChunkSize {
			good = append(good, part)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, sep)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, part)
		} else {
			final = append(final, s.splitText(part, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, sep)...)
	}
	return final
}

// merge joins adjacent pieces with sep until the chunk size is reached, then
// starts the next chunk with the trailing pieces that fit the overlap budget.
func (s *Splitter) merge(pieces []string, sep string) []string {
	var chunks []string
	var current []string
	total := 0

	join := func() {
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		size := len(piece)
		if total+size+sepLen(sep, len(current)) > s.cfg.ChunkSize && len(current) > 0 {
			join()
			// Drop leading pieces until the carry-over fits the overlap.
			for total > s.cfg.ChunkOverlap && len(current) > 0 {
				total -= len(current[0]) + sepLen(sep, len(current)-1)
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += size + sepLen(sep, len(current)-1)
	}
	join()
	return chunks
}

// sepLen is the length the separator contributes when a chunk already has n pieces.
func sepLen(sep string, n int) int {
	if n > 0 {
		return len(sep)
	}
	return 0
}

// relevantHeading locates the chunk inside the full text by its first 100
// characters and returns the latest heading positioned before that offset.
// When the chunk cannot be located, the first heading is used.
func relevantHeading(chunkText string, headings []string, fullText string) string {
	if len(headings) == 0 {
		return ""
	}
	probe := chunkText
	if len(probe) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(probe[cut]) {
			cut--
		}
		probe = probe[:cut]
	}
	start := strings.Index(fullText, probe)
	if start < 0 {
		return headings[0]
	}
	relevant := ""
	for _, h := range headings {
		pos := strings.Index(fullText, h)
		if pos >= 0 && pos <= start {
			relevant = h
		}
	}
	return relevant
}
