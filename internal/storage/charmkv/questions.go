// ABOUTME: Cloud-synced question bank stored in charm KV
// ABOUTME: One JSON record per question under the question: prefix
package charmkv

import (
	"context"
	"fmt"
	"sort"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
)

// QuestionPrefix namespaces question records
const QuestionPrefix = "question:"

// QuestionKey generates a key for a stored question
func QuestionKey(id string) string {
	return QuestionPrefix + id
}

// QuestionStore implements storage.Provider on charm KV
type QuestionStore struct {
	client *Client
}

var _ storage.Provider = (*QuestionStore)(nil)

func NewQuestionStore(client *Client) *QuestionStore {
	return &QuestionStore{client: client}
}

func (s *QuestionStore) Save(ctx context.Context, topic string, q *models.QuizQuestion) (*models.StoredQuestion, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to store invalid question: %w", err)
	}
	stored := storage.NewStoredQuestion(topic, q)
	if err := s.client.SetJSON(QuestionKey(stored.ID), stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// All loads every question record, oldest first
func (s *QuestionStore) All(ctx context.Context) ([]models.StoredQuestion, error) {
	keys, err := s.client.ListKeys(QuestionPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]models.StoredQuestion, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var q models.StoredQuestion
		if err := s.client.GetJSON(key, &q); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		out = append(out, q)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *QuestionStore) Exists(ctx context.Context, q *models.QuizQuestion) (bool, error) {
	all, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	return storage.ContainsSame(all, q), nil
}

func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	keys, err := s.client.ListKeys(QuestionPrefix)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *QuestionStore) Sample(ctx context.Context, n int) ([]models.StoredQuestion, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return storage.SampleFrom(all, n), nil
}

func (s *QuestionStore) Close() error {
	return s.client.Close()
}
