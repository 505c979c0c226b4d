package outline

import (
	"path/filepath"
	"testing"

	"github.com/dgallion1/outliner/internal/document"
)

func hit(title string, level int, sim float64, docID string) Hit {
	return Hit{
		Node: document.NodeRecord{
			HeadingNode: document.HeadingNode{
				Title: title,
				Level: level,
				DocID: docID,
			},
		},
		Similarity: sim,
	}
}

func TestMergeDedupesSynonymousHeadings(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{
		hit("1. Executive Summary", 1, 0.9, "plan_a"),
		hit("EXECUTIVE SUMMARY", 1, 0.8, "plan_b"),
	}

	out := m.Merge(hits, 5, "")
	if len(out.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(out.Sections))
	}
	sec := out.Sections[0]
	if sec.Frequency != 2 {
		t.Errorf("frequency = %d, want 2", sec.Frequency)
	}
	if sec.SourceSimilarity != 0.9 {
		t.Errorf("similarity = %f, want the best of the group", sec.SourceSimilarity)
	}
	if sec.Title != "Executive Summary" {
		t.Errorf("title = %q", sec.Title)
	}
}

func TestMergeEmptyHitsYieldsDefault(t *testing.T) {
	m := NewMerger(DefaultConfig())
	out := m.Merge(nil, 5, "")
	if out.Metadata.GenerationMethod != "default" {
		t.Fatalf("method = %q", out.Metadata.GenerationMethod)
	}
	if len(out.Sections) < 5 {
		t.Errorf("default outline has %d sections", len(out.Sections))
	}
	for _, sec := range out.Sections {
		if sec.Level != 1 {
			t.Errorf("section %q level = %d", sec.Title, sec.Level)
		}
	}
}

func TestMergeNoTopLevelSurvivorsYieldsDefault(t *testing.T) {
	m := NewMerger(DefaultConfig())
	out := m.Merge([]Hit{hit("2.1 Detail", 2, 0.9, "plan_a")}, 5, "")
	if out.Metadata.GenerationMethod != "default" {
		t.Fatalf("method = %q", out.Metadata.GenerationMethod)
	}
}

func TestMergeHierarchy(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{
		hit("1. Implementation Plan", 1, 0.9, "plan_a"),
		hit("1.1 Delivery Phases", 2, 0.8, "plan_a"),
		hit("1.2 Rollout Schedule", 2, 0.7, "plan_b"), // related via the relation table
		hit("9. Unrelated Budget", 1, 0.6, "plan_c"),
	}

	out := m.Merge(hits, 10, "")
	var parent *Section
	for _, sec := range out.Sections {
		if sec.Title == "Implementation Plan" {
			parent = sec
		}
	}
	if parent == nil {
		t.Fatal("missing Implementation Plan section")
	}
	if len(parent.Subsections) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(parent.Subsections))
	}
	for _, sub := range parent.Subsections {
		if sub.Level <= parent.Level {
			t.Errorf("subsection %q level %d not deeper than parent level %d",
				sub.Title, sub.Level, parent.Level)
		}
	}
	// Most similar subsection first.
	if parent.Subsections[0].Title != "Delivery Phases" {
		t.Errorf("first subsection = %q", parent.Subsections[0].Title)
	}
}

func TestMergeCapsSubsections(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{
		hit("1. Implementation Plan", 1, 0.9, "plan_a"),
		hit("1.1 Alpha Stage", 2, 0.8, "plan_a"),
		hit("1.2 Beta Stage", 2, 0.7, "plan_a"),
		hit("1.3 Gamma Stage", 2, 0.6, "plan_a"),
		hit("1.4 Delta Stage", 2, 0.5, "plan_a"),
	}

	out := m.Merge(hits, 10, "")
	if got := len(out.Sections[0].Subsections); got != 3 {
		t.Errorf("subsection count = %d, want 3", got)
	}
}

func TestMergeNormalizesBadLevels(t *testing.T) {
	m := NewMerger(DefaultConfig())
	out := m.Merge([]Hit{hit("Overview", 0, 0.9, "plan_a")}, 5, "")
	if out.Metadata.GenerationMethod != "frequency_semantic_dedup" {
		t.Fatalf("method = %q", out.Metadata.GenerationMethod)
	}
	if len(out.Sections) != 1 || out.Sections[0].Level != 1 {
		t.Errorf("level 0 hit should become a level 1 section")
	}
}

func TestMergeInsertsRequirementsSection(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{
		hit("1. Overview", 1, 0.9, "plan_a"),
		hit("2. Budget", 1, 0.8, "plan_a"),
	}

	out := m.Merge(hits, 5, "The system requirements include audit logging.")
	if len(out.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(out.Sections))
	}
	if out.Sections[1].Title != "Requirements Analysis" {
		t.Errorf("section 1 = %q", out.Sections[1].Title)
	}
}

func TestMergeSkipsRequirementsWhenCovered(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{hit("1. Requirements Overview", 1, 0.9, "plan_a")}

	out := m.Merge(hits, 5, "the requirements say so")
	for i, sec := range out.Sections {
		if i > 0 && sec.Title == "Requirements Analysis" {
			t.Error("synthetic requirements section added despite coverage")
		}
	}
}

func TestMergeMetadata(t *testing.T) {
	m := NewMerger(DefaultConfig())
	hits := []Hit{
		hit("1. Overview", 1, 0.9, "plan_b"),
		hit("2. Budget", 1, 0.8, "plan_a"),
	}

	out := m.Merge(hits, 5, "")
	if out.Metadata.TotalNodesConsidered != 2 {
		t.Errorf("total considered = %d", out.Metadata.TotalNodesConsidered)
	}
	docs := out.Metadata.SourceDocuments
	if len(docs) != 2 || docs[0] != "plan_a" || docs[1] != "plan_b" {
		t.Errorf("source documents = %v", docs)
	}
}

func TestMergeTargetCountLimitsSections(t *testing.T) {
	m := NewMerger(DefaultConfig())
	var hits []Hit
	titles := []string{"Alpha Topic", "Beta Topic", "Gamma Topic", "Delta Topic"}
	for i, title := range titles {
		hits = append(hits, hit(title, 1, 0.9-float64(i)*0.1, "plan_a"))
	}

	out := m.Merge(hits, 2, "")
	if len(out.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out.Sections))
	}
	if out.Sections[0].Title != "Alpha Topic" {
		t.Errorf("best section = %q", out.Sections[0].Title)
	}
}

func TestCanonicalKey(t *testing.T) {
	syn := DefaultSynonyms()
	cases := []struct {
		title string
		key   string
	}{
		{"1. Executive Summary", "executive_summary"},
		{"EXECUTIVE SUMMARY", "executive_summary"},
		{"3.2 Timeline", "schedule"},
		{"Goals & Objectives", "goals"},
		{"Some Unusual Heading", "some unusual heading"},
	}
	for _, tc := range cases {
		if got := canonicalKey(tc.title, syn); got != tc.key {
			t.Errorf("canonicalKey(%q) = %q, want %q", tc.title, got, tc.key)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	if got := cleanTitle("3. executive summary"); got != "Executive summary" {
		t.Errorf("cleanTitle = %q", got)
	}
	if got := cleanTitle("Overview"); got != "Overview" {
		t.Errorf("cleanTitle = %q", got)
	}
}

func TestOutlineSaveLoadRoundTrip(t *testing.T) {
	m := NewMerger(DefaultConfig())
	out := m.Merge([]Hit{
		hit("1. Overview", 1, 0.9, "plan_a"),
		hit("1.1 Overview Details", 2, 0.7, "plan_a"),
	}, 5, "")

	path := filepath.Join(t.TempDir(), "outline.json")
	if err := out.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != out.Title || len(loaded.Sections) != len(out.Sections) {
		t.Fatalf("round trip changed shape")
	}
	if loaded.Sections[0].Title != out.Sections[0].Title {
		t.Errorf("section title changed: %q", loaded.Sections[0].Title)
	}
	if len(loaded.Sections[0].Subsections) != len(out.Sections[0].Subsections) {
		t.Errorf("subsections changed")
	}
}
