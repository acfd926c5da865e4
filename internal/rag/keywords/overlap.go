package keywords

import (
	"regexp"
	"strings"
)

const minTokenLength = 3

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {}, "your": {},
	"all": {}, "any": {}, "can": {}, "had": {}, "her": {}, "was": {}, "one": {}, "our": {},
	"out": {}, "has": {}, "have": {}, "his": {}, "how": {}, "its": {}, "may": {}, "who": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "why": {}, "will": {}, "with": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "there": {}, "their": {}, "them": {},
	"they": {}, "from": {}, "does": {}, "did": {}, "doing": {}, "about": {}, "into": {},
	"would": {}, "could": {}, "should": {}, "been": {}, "being": {}, "were": {}, "then": {},
	"than": {}, "also": {}, "just": {}, "some": {}, "such": {}, "only": {}, "other": {},
	"very": {}, "more": {}, "most": {}, "much": {}, "many": {}, "tell": {}, "know": {},
	"please": {}, "need": {}, "want": {}, "get": {}, "got": {}, "is": {}, "whats": {},
}

// Keywords returns the unique content words of text in first-seen order.
func Keywords(text string) []string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "")
	var out []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// Overlap is the fraction of the question's keywords that also occur in the passage.
// It is 0 when the question has no keywords.
func Overlap(question, passage string) float64 {
	qk := Keywords(question)
	if len(qk) == 0 {
		return 0
	}
	pk := make(map[string]struct{})
	for _, k := range Keywords(passage) {
		pk[k] = struct{}{}
	}
	matched := 0
	for _, k := range qk {
		if _, ok := pk[k]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(qk))
}

// Boost applies the lexical bonus and clamps to 1.
func Boost(similarity, keywordScore, weight float64) float64 {
	boosted := similarity + weight*keywordScore
	if boosted > 1.0 {
		return 1.0
	}
	return boosted
}
