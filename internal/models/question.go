// ABOUTME: QuizQuestion is a validated four-option multiple-choice question
// ABOUTME: StoredQuestion adds bank metadata (id, topic, timestamp)
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// OptionCount is the number of options every question carries
const OptionCount = 4

var (
	ErrMissingField       = errors.New("question, answer, and options are required")
	ErrWrongOptionCount   = errors.New("question must have exactly 4 options")
	ErrDuplicateOption    = errors.New("options must be distinct")
	ErrAnswerNotInOptions = errors.New("answer must match exactly one option")
)

// QuizQuestion is the unit produced by generation and consumed by sessions and exports
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Validate checks the shape invariant: 4 distinct non-empty options and an
// answer equal to exactly one of them.
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
		return ErrMissingField
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: got %d", ErrWrongOptionCount, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return ErrMissingField
		}
		if seen[opt] {
			return fmt.Errorf("%w: %q repeated", ErrDuplicateOption, opt)
		}
		seen[opt] = true
	}
	if !seen[q.Answer] {
		return ErrAnswerNotInOptions
	}
	return nil
}

// CorrectIndex returns the position of the answer in Options, or -1
func (q *QuizQuestion) CorrectIndex() int {
	return slices.Index(q.Options, q.Answer)
}

// CombinedText joins every user-visible field, used for excluded-term checks
func (q *QuizQuestion) CombinedText() string {
	parts := make([]string, 0, len(q.Options)+2)
	parts = append(parts, q.Question)
	parts = append(parts, q.Options...)
	parts = append(parts, q.Explanation)
	return strings.Join(parts, "\n")
}

// SameAs reports whether two questions are duplicates: same text, same
// answer, and the same set of options in any order.
func (q *QuizQuestion) SameAs(other *QuizQuestion) bool {
	if other == nil {
		return false
	}
	if strings.TrimSpace(q.Question) != strings.TrimSpace(other.Question) ||
		strings.TrimSpace(q.Answer) != strings.TrimSpace(other.Answer) {
		return false
	}
	a := slices.Clone(q.Options)
	b := slices.Clone(other.Options)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Clone returns a deep copy
func (q *QuizQuestion) Clone() *QuizQuestion {
	c := *q
	c.Options = slices.Clone(q.Options)
	return &c
}

// StoredQuestion is a question persisted in a question bank
type StoredQuestion struct {
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
	QuizQuestion
	CreatedAt time.Time `json:"created_at,omitzero"`
}
