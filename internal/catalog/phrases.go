package catalog

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/rotisserie/eris"
)

// PhraseSet matches a fixed list of phrases case-insensitively in one pass over the
// input using an Aho-Corasick automaton.
type PhraseSet struct {
	phrases []string
	matcher *ahocorasick.Matcher
}

// NewPhraseSet builds a matcher over phrases. Phrase order is preserved in results.
func NewPhraseSet(phrases []string) (*PhraseSet, error) {
	lowered := make([]string, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for i, p := range phrases {
		l := strings.ToLower(strings.TrimSpace(p))
		if l == "" {
			return nil, eris.Errorf("phrase %d is empty", i)
		}
		if seen[l] {
			return nil, eris.Errorf("duplicate phrase %q", p)
		}
		seen[l] = true
		lowered[i] = l
	}

	ps := &PhraseSet{phrases: append([]string(nil), phrases...)}
	if len(lowered) > 0 {
		ps.matcher = ahocorasick.NewStringMatcher(lowered)
	}
	return ps, nil
}

// Len returns the number of phrases in the set.
func (ps *PhraseSet) Len() int {
	return len(ps.phrases)
}

// Distinct returns every phrase occurring in text, each once, in set order.
func (ps *PhraseSet) Distinct(text string) []string {
	hit := ps.hits(text)
	var out []string
	for i, ok := range hit {
		if ok {
			out = append(out, ps.phrases[i])
		}
	}
	return out
}

// First returns the earliest phrase in set order that occurs in text.
func (ps *PhraseSet) First(text string) (string, bool) {
	for i, ok := range ps.hits(text) {
		if ok {
			return ps.phrases[i], true
		}
	}
	return "", false
}

func (ps *PhraseSet) hits(text string) []bool {
	if ps.matcher == nil || text == "" {
		return nil
	}
	hit := make([]bool, len(ps.phrases))
	for _, idx := range ps.matcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if idx >= 0 && idx < len(hit) {
			hit[idx] = true
		}
	}
	return hit
}
