// ABOUTME: Test doubles for session tests
// ABOUTME: Scripted question generator and an in-memory question bank
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
)

var errGenerate = errors.New("could not generate")

// fakeGenerator numbers its questions; answers are always option "b"
type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	failAt map[int]bool
}

func (f *fakeGenerator) GenerateForTopic(ctx context.Context, topic string) (*models.QuizQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt[f.calls] {
		return nil, errGenerate
	}
	return numbered(f.calls), nil
}

func numbered(n int) *models.QuizQuestion {
	return &models.QuizQuestion{
		Question:    fmt.Sprintf("Question %d?", n),
		Options:     []string{"a", "b", "c", "d"},
		Answer:      "b",
		Explanation: "b is right.",
	}
}

// memBank is a minimal storage.Provider
type memBank struct {
	mu        sync.Mutex
	questions []models.StoredQuestion
	saves     int
	existsErr error
}

func (m *memBank) Exists(ctx context.Context, q *models.QuizQuestion) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return storage.ContainsSame(m.questions, q), nil
}

func (m *memBank) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions), nil
}

func (m *memBank) Sample(ctx context.Context, n int) ([]models.StoredQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return storage.SampleFrom(m.questions, n), nil
}

func (m *memBank) Save(ctx context.Context, topic string, q *models.QuizQuestion) (*models.StoredQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	stored := storage.NewStoredQuestion(topic, q)
	m.questions = append(m.questions, *stored)
	return stored, nil
}

func (m *memBank) All(ctx context.Context) ([]models.StoredQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.StoredQuestion(nil), m.questions...), nil
}

func (m *memBank) Close() error { return nil }
