package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/config"
)

const DefaultMaxVariations = 5

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespace      = regexp.MustCompile(`\s+`)
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Expander widens recall by producing lexical variants of a question.
// Safe for concurrent use; the rule table is compiled once.
type Expander struct {
	rules []rule
	max   int
}

func NewExpander(rules []config.RephraseRule, maxVariations int) (*Expander, error) {
	if maxVariations < 1 {
		maxVariations = DefaultMaxVariations
	}
	compiled := make([]rule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rephrase pattern %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, rule{pattern: re, replacement: r.Replacement})
	}
	return &Expander{rules: compiled, max: maxVariations}, nil
}

// Expand returns the original question first, then distinct variations:
// the punctuation-stripped form, then one rephrasing per matching rule.
func (e *Expander) Expand(question string) []string {
	variations := []string{question}
	seen := map[string]bool{question: true}

	add := func(v string) {
		if len(variations) >= e.max || v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	add(StripPunctuation(question))

	base := baseForm(question)
	for _, r := range e.rules {
		if !r.pattern.MatchString(base) {
			continue
		}
		rephrased := collapse(r.pattern.ReplaceAllString(base, r.replacement))
		if rephrased != base {
			add(rephrased)
		}
	}
	return variations
}

// StripPunctuation lowercases and removes every non-alphanumeric character.
func StripPunctuation(text string) string {
	return collapse(nonAlphanumeric.ReplaceAllString(strings.ToLower(text), ""))
}

// baseForm keeps inner punctuation (contractions) so rules like "what's" can still match.
func baseForm(text string) string {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return collapse(strings.TrimRight(strings.TrimSpace(lower), "?!. "))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
