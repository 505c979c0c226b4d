package outline

import (
	"sort"
	"strings"

	"github.com/dgallion1/outliner/internal/document"
)

// Hit is one raw nearest-neighbor result entering the merge.
type Hit struct {
	Node       document.NodeRecord
	Similarity float64
}

// Config tunes deduplication, ranking, and hierarchy assembly. The seed
// synonym and relation tables are starting points, not exhaustive lists;
// extend them conservatively.
type Config struct {
	SimilarityWeight float64             // Weight of similarity in the combined score.
	FrequencyWeight  float64             // Weight of the frequency contribution.
	FrequencyCap     int                 // Frequency saturates at this count.
	MaxSubsections   int                 // At most this many subsections per parent.
	Synonyms         []SynonymRule       // Ordered canonicalization rules.
	Relations        map[string][]string // Topic relatedness table.
}

// DefaultConfig returns the standard merge configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityWeight: 0.7,
		FrequencyWeight:  0.3,
		FrequencyCap:     10,
		MaxSubsections:   3,
		Synonyms:         DefaultSynonyms(),
		Relations:        DefaultRelations(),
	}
}

// Merger dedupes noisy multi-document search hits and assembles them into a
// hierarchical outline. It never fails on malformed hits: a missing level is
// treated as level 1 and the merge degrades to best-effort defaults.
type Merger struct {
	cfg Config
}

// NewMerger creates a Merger, filling zero config fields from DefaultConfig.
func NewMerger(cfg Config) *Merger {
	def := DefaultConfig()
	if cfg.SimilarityWeight == 0 && cfg.FrequencyWeight == 0 {
		cfg.SimilarityWeight = def.SimilarityWeight
		cfg.FrequencyWeight = def.FrequencyWeight
	}
	if cfg.FrequencyCap <= 0 {
		cfg.FrequencyCap = def.FrequencyCap
	}
	if cfg.MaxSubsections <= 0 {
		cfg.MaxSubsections = def.MaxSubsections
	}
	if cfg.Synonyms == nil {
		cfg.Synonyms = def.Synonyms
	}
	if cfg.Relations == nil {
		cfg.Relations = def.Relations
	}
	return &Merger{cfg: cfg}
}

// candidate is a deduplicated group representative.
type candidate struct {
	Hit
	frequency int
	level     int
}

// Merge canonicalizes and dedupes raw hits, keeps the top targetCount by
// combined score, and assembles a two-to-three-level outline.
// requirementsText drives the coverage check for a requirements section.
// An empty hit list, or one with no level-1 survivors, yields the fixed
// default outline so every query produces a usable starting point.
func (m *Merger) Merge(hits []Hit, targetCount int, requirementsText string) *Outline {
	if targetCount <= 0 {
		targetCount = 5
	}
	if len(hits) == 0 {
		return DefaultOutline()
	}
	survivors := m.deduplicate(hits, targetCount)
	return m.assemble(survivors, requirementsText)
}

// deduplicate groups hits by canonical title key, keeps the most similar hit
// of each group as representative with the group size as its frequency, and
// returns the top target representatives by combined score.
func (m *Merger) deduplicate(hits []Hit, target int) []candidate {
	groups := make(map[string]*candidate)
	var order []string

	for _, h := range hits {
		key := canonicalKey(h.Node.Title, m.cfg.Synonyms)
		g, ok := groups[key]
		if !ok {
			groups[key] = &candidate{Hit: h, frequency: 1, level: normalizeLevel(h.Node.Level)}
			order = append(order, key)
			continue
		}
		g.frequency++
		if h.Similarity > g.Similarity {
			g.Hit = h
			g.level = normalizeLevel(h.Node.Level)
		}
	}

	survivors := make([]candidate, 0, len(order))
	for _, key := range order {
		survivors = append(survivors, *groups[key])
	}
	sort.SliceStable(survivors, func(a, b int) bool {
		return m.combinedScore(survivors[a]) > m.combinedScore(survivors[b])
	})
	if len(survivors) > target {
		survivors = survivors[:target]
	}
	return survivors
}

// combinedScore mixes similarity with a clipped frequency contribution so
// raw similarity still dominates.
func (m *Merger) combinedScore(c candidate) float64 {
	freq := float64(c.frequency) / float64(m.cfg.FrequencyCap)
	if freq > 1 {
		freq = 1
	}
	return m.cfg.SimilarityWeight*c.Similarity + m.cfg.FrequencyWeight*freq
}

func (m *Merger) assemble(survivors []candidate, requirementsText string) *Outline {
	byLevel := make(map[int][]candidate)
	for _, c := range survivors {
		byLevel[c.level] = append(byLevel[c.level], c)
	}

	var sections []*Section
	for _, c := range byLevel[1] {
		sections = append(sections, &Section{
			Title:            cleanTitle(c.Node.Title),
			Level:            1,
			SourceSimilarity: c.Similarity,
			Frequency:        c.frequency,
			Subsections:      m.subsections(c, byLevel),
		})
	}
	if len(sections) == 0 {
		return DefaultOutline()
	}

	out := &Outline{
		Title:    "Suggested Project Outline",
		Sections: sections,
		Metadata: Metadata{
			SourceDocuments:      sourceDocuments(survivors),
			TotalNodesConsidered: len(survivors),
			GenerationMethod:     "frequency_semantic_dedup",
		},
	}
	m.ensureRequirementsSection(out, requirementsText)
	return out
}

// subsections attaches deeper survivors to a parent when they come from the
// same source document or their titles are related, keeping the most
// similar few.
func (m *Merger) subsections(parent candidate, byLevel map[int][]candidate) []*Section {
	subs := []*Section{}
	for _, level := range []int{2, 3} {
		for _, c := range byLevel[level] {
			if c.Node.DocID != parent.Node.DocID && !m.related(parent.Node.Title, c.Node.Title) {
				continue
			}
			subs = append(subs, &Section{
				Title:            cleanTitle(c.Node.Title),
				Level:            level,
				SourceSimilarity: c.Similarity,
				Frequency:        c.frequency,
				Subsections:      []*Section{},
			})
		}
	}
	sort.SliceStable(subs, func(a, b int) bool {
		return subs[a].SourceSimilarity > subs[b].SourceSimilarity
	})
	if len(subs) > m.cfg.MaxSubsections {
		subs = subs[:m.cfg.MaxSubsections]
	}
	return subs
}

// related reports whether two titles share a non-stopword token or are
// linked through the relation table.
func (m *Merger) related(parentTitle, childTitle string) bool {
	parentWords := tokenSet(parentTitle)
	childWords := tokenSet(childTitle)

	for w := range parentWords {
		if _, ok := childWords[w]; ok {
			return true
		}
	}
	for w := range parentWords {
		for _, rel := range m.cfg.Relations[w] {
			if _, ok := childWords[rel]; ok {
				return true
			}
		}
	}
	return false
}

// ensureRequirementsSection inserts a synthetic requirements section near the
// top when the requirements text mentions requirements but no produced
// section covers them.
func (m *Merger) ensureRequirementsSection(out *Outline, requirementsText string) {
	for _, sec := range out.Sections {
		if strings.Contains(strings.ToLower(sec.Title), "requirement") {
			return
		}
	}
	if !strings.Contains(strings.ToLower(requirementsText), "requirement") {
		return
	}
	sec := &Section{
		Title:            "Requirements Analysis",
		Level:            1,
		SourceSimilarity: 0.8,
		Frequency:        1,
		Subsections:      []*Section{},
	}
	if len(out.Sections) < 1 {
		out.Sections = append(out.Sections, sec)
		return
	}
	out.Sections = append(out.Sections[:1], append([]*Section{sec}, out.Sections[1:]...)...)
}

// sourceDocuments lists the distinct doc ids among survivors, sorted for
// deterministic output.
func sourceDocuments(survivors []candidate) []string {
	seen := make(map[string]struct{})
	var docs []string
	for _, c := range survivors {
		if _, ok := seen[c.Node.DocID]; ok {
			continue
		}
		seen[c.Node.DocID] = struct{}{}
		docs = append(docs, c.Node.DocID)
	}
	sort.Strings(docs)
	return docs
}

func normalizeLevel(level int) int {
	if level < 1 {
		return 1
	}
	return level
}

// defaultSectionTitles seeds the fallback outline returned when search
// produces nothing usable.
var defaultSectionTitles = []string{
	"Executive Summary",
	"Project Information",
	"Project Goals and Objectives",
	"Implementation Plan",
	"Deliverables",
	"Timeline",
}

// DefaultOutline returns the fixed generic outline used when no hits survive
// the merge.
func DefaultOutline() *Outline {
	sections := make([]*Section, 0, len(defaultSectionTitles))
	for _, title := range defaultSectionTitles {
		sections = append(sections, &Section{
			Title:       title,
			Level:       1,
			Frequency:   1,
			Subsections: []*Section{},
		})
	}
	return &Outline{
		Title:    "Default Project Outline",
		Sections: sections,
		Metadata: Metadata{
			SourceDocuments:  []string{},
			GenerationMethod: "default",
		},
	}
}
