package outline

import (
	"regexp"
	"strings"
)

// SynonymRule rewrites a normalized title containing Fragment to Canonical,
// collapsing near-synonym headings onto one deduplication key.
type SynonymRule struct {
	Fragment  string
	Canonical string
}

// DefaultSynonyms is the seed synonym table. Rules are ordered: the first
// matching fragment wins, so more specific fragments come first.
func DefaultSynonyms() []SynonymRule {
	return []SynonymRule{
		{"executive summary", "executive_summary"},
		{"project information", "project_info"},
		{"project goals", "goals"},
		{"objectives", "goals"},
		{"responsibilities", "roles"},
		{"deliverables", "deliverables"},
		{"timeline", "schedule"},
		{"implementation", "implementation"},
	}
}

// DefaultRelations maps a topic token to tokens that belong under it,
// used to judge whether two headings are related.
func DefaultRelations() map[string][]string {
	return map[string][]string{
		"project":        {"goals", "objectives", "scope", "requirements"},
		"implementation": {"timeline", "schedule", "phases", "steps"},
		"management":     {"roles", "responsibilities", "team", "organization"},
		"quality":        {"assurance", "control", "testing", "validation"},
	}
}

var (
	leadingNumberRe = regexp.MustCompile(`^\d+(\.\d+)*\.?\s*`)
	punctuationRe   = regexp.MustCompile(`[^\w\s]`)
)

var relationStopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

// canonicalKey normalizes a heading title to its deduplication key: strip
// leading numbering and punctuation, lowercase, then apply the synonym table.
func canonicalKey(title string, synonyms []SynonymRule) string {
	key := leadingNumberRe.ReplaceAllString(title, "")
	key = punctuationRe.ReplaceAllString(key, "")
	key = strings.ToLower(strings.TrimSpace(key))
	for _, rule := range synonyms {
		if strings.Contains(key, rule.Fragment) {
			return rule.Canonical
		}
	}
	return key
}

// cleanTitle strips leading numbering and capitalizes the first rune, for
// presentation in the merged outline.
func cleanTitle(title string) string {
	cleaned := strings.TrimSpace(leadingNumberRe.ReplaceAllString(title, ""))
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}

// tokenSet returns the lowercase non-stopword tokens of a title.
func tokenSet(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if _, stop := relationStopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}
