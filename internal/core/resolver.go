// ABOUTME: Resolves a free-text topic label to the best matching document filename
// ABOUTME: Exact stem, then prefix, then substring, then token overlap
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "with": true, "about": true,
	"more": true, "is": true, "or": true, "pdf": true,
}

// ResolveDocument picks one filename for topic. Ties go to the earliest
// filename in the given order.
func ResolveDocument(topic string, filenames []string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(topic))
	if want == "" || len(filenames) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, topic)
	}

	stems := make([]string, len(filenames))
	for i, f := range filenames {
		base := filepath.Base(f)
		stems[i] = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	for i, s := range stems {
		if s == want {
			return filenames[i], nil
		}
	}
	for i, s := range stems {
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, want) || strings.HasPrefix(want, s) {
			return filenames[i], nil
		}
	}
	for i, s := range stems {
		if s == "" {
			continue
		}
		if strings.Contains(s, want) || strings.Contains(want, s) {
			return filenames[i], nil
		}
	}

	wantTokens := tokenize(want)
	best, bestScore := -1, 0
	for i, s := range stems {
		score := overlap(wantTokens, tokenize(s))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, topic)
	}
	return filenames[best], nil
}

// tokenize lowercases, splits on anything that is not a letter or digit,
// and drops stopwords
func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !stopwords[f] {
			out[f] = true
		}
	}
	return out
}

func overlap(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}
