// ABOUTME: Shared fixtures for command tests
// ABOUTME: Scripted question generator and an in-memory SQLite bank
package commands

import (
	"context"
	"fmt"
	"testing"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage/sqlite"
)

type scriptedGenerator struct {
	calls int
}

func (g *scriptedGenerator) GenerateForTopic(ctx context.Context, topic string) (*models.QuizQuestion, error) {
	g.calls++
	return sampleQuestion(g.calls), nil
}

// sampleQuestion's answer is always the second option
func sampleQuestion(n int) *models.QuizQuestion {
	return &models.QuizQuestion{
		Question:    fmt.Sprintf("What does snippet %d print?", n),
		Options:     []string{"alpha", "beta", "gamma", "delta"},
		Answer:      "beta",
		Explanation: "It prints beta.",
	}
}

func newTestBank(t *testing.T) *sqlite.QuestionStore {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	store := sqlite.NewQuestionStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedBank(t *testing.T, store *sqlite.QuestionStore, topics ...string) {
	t.Helper()
	for i, topic := range topics {
		if _, err := store.Save(context.Background(), topic, sampleQuestion(i+1)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

// resetGlobals restores the persistent flag values after a test
func resetGlobals(t *testing.T) {
	t.Helper()
	v, q, f := verbose, quiet, outputFormat
	t.Cleanup(func() {
		verbose, quiet, outputFormat = v, q, f
	})
	verbose, quiet, outputFormat = false, false, "auto"
}
