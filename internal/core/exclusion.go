// ABOUTME: Excluded-term filtering for context chunks and generated questions
// ABOUTME: Matching is case-insensitive substring containment
package core

import "strings"

// NormalizeTerms lowercases and trims terms, dropping empties and duplicates
func NormalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// FilterChunks drops every chunk that mentions an excluded term
func FilterChunks(chunks []string, terms []string) []string {
	terms = NormalizeTerms(terms)
	if len(terms) == 0 {
		return chunks
	}
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if !Violates(c, terms) {
			out = append(out, c)
		}
	}
	return out
}

// Violates reports whether text contains any excluded term
func Violates(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
