// ABOUTME: Question bank contract shared by the sqlite, snapshot, and charm backends
// ABOUTME: Also holds the helpers every backend uses to build and sample records
package storage

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/harper/quizsmith/internal/models"
)

// ErrReadOnly is returned by backends that cannot store questions
var ErrReadOnly = errors.New("question bank is read-only")

// Provider is a pluggable question bank
type Provider interface {
	// Exists reports whether an identical question is already stored
	Exists(ctx context.Context, q *models.QuizQuestion) (bool, error)
	Count(ctx context.Context) (int, error)
	// Sample returns up to n distinct random questions
	Sample(ctx context.Context, n int) ([]models.StoredQuestion, error)
	Save(ctx context.Context, topic string, q *models.QuizQuestion) (*models.StoredQuestion, error)
	All(ctx context.Context) ([]models.StoredQuestion, error)
	Close() error
}

// NewStoredQuestion stamps a question with an id and creation time
func NewStoredQuestion(topic string, q *models.QuizQuestion) *models.StoredQuestion {
	return &models.StoredQuestion{
		ID:           uuid.New().String(),
		Topic:        topic,
		QuizQuestion: *q.Clone(),
		CreatedAt:    time.Now().UTC(),
	}
}

// SampleFrom picks up to n distinct questions from all at random
func SampleFrom(all []models.StoredQuestion, n int) []models.StoredQuestion {
	if n <= 0 || len(all) == 0 {
		return nil
	}
	perm := rand.Perm(len(all))
	n = min(n, len(all))
	out := make([]models.StoredQuestion, n)
	for i := 0; i < n; i++ {
		out[i] = all[perm[i]]
	}
	return out
}

// ContainsSame reports whether any stored question duplicates q
func ContainsSame(all []models.StoredQuestion, q *models.QuizQuestion) bool {
	for i := range all {
		if all[i].QuizQuestion.SameAs(q) {
			return true
		}
	}
	return false
}
