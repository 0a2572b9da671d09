// ABOUTME: Tests for the shared question bank helpers
// ABOUTME: Sampling bounds and duplicate detection
package storage

import (
	"fmt"
	"testing"

	"github.com/harper/quizsmith/internal/models"
)

func bank(n int) []models.StoredQuestion {
	out := make([]models.StoredQuestion, n)
	for i := range out {
		q := &models.QuizQuestion{
			Question: fmt.Sprintf("Question %d?", i),
			Options:  []string{"a", "b", "c", "d"},
			Answer:   "a",
		}
		out[i] = *NewStoredQuestion("topic", q)
	}
	return out
}

func TestSampleFrom(t *testing.T) {
	all := bank(5)

	tests := []struct {
		n, want int
	}{
		{3, 3},
		{5, 5},
		{10, 5},
		{0, 0},
	}
	for _, tt := range tests {
		got := SampleFrom(all, tt.n)
		if len(got) != tt.want {
			t.Errorf("SampleFrom(n=%d) returned %d, want %d", tt.n, len(got), tt.want)
		}
		seen := map[string]bool{}
		for _, q := range got {
			if seen[q.ID] {
				t.Errorf("SampleFrom returned %s twice", q.ID)
			}
			seen[q.ID] = true
		}
	}

	if SampleFrom(nil, 3) != nil {
		t.Error("sampling an empty bank should return nil")
	}
}

func TestNewStoredQuestion(t *testing.T) {
	q := &models.QuizQuestion{Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a"}
	s := NewStoredQuestion("Loops", q)
	if s.ID == "" || s.CreatedAt.IsZero() || s.Topic != "Loops" {
		t.Errorf("NewStoredQuestion() = %+v", s)
	}
	q.Options[0] = "changed"
	if s.Options[0] != "a" {
		t.Error("stored question should not alias the caller's options")
	}
}

func TestContainsSame(t *testing.T) {
	all := bank(3)
	dup := all[1].QuizQuestion.Clone()
	dup.Options = []string{"d", "c", "b", "a"}
	if !ContainsSame(all, dup) {
		t.Error("reordered options should still be a duplicate")
	}
	if ContainsSame(all, &models.QuizQuestion{Question: "new", Options: []string{"a", "b", "c", "d"}, Answer: "a"}) {
		t.Error("new question should not be a duplicate")
	}
}
