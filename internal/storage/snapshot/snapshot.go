// ABOUTME: Read-only question bank backed by a JSON snapshot file
// ABOUTME: Loaded once; a missing file is an empty bank so the app still runs
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
)

// Store serves questions from a snapshot
type Store struct {
	path      string
	questions []models.StoredQuestion
}

var _ storage.Provider = (*Store)(nil)

// Load reads the snapshot at path
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var questions []models.StoredQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	// Drop records that would break a quiz session
	valid := questions[:0]
	for _, q := range questions {
		if q.Validate() == nil {
			valid = append(valid, q)
		}
	}
	return &Store{path: path, questions: valid}, nil
}

// Write dumps questions to path as an indented JSON array
func Write(path string, questions []models.StoredQuestion) error {
	if questions == nil {
		questions = []models.StoredQuestion{}
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Exists(ctx context.Context, q *models.QuizQuestion) (bool, error) {
	return storage.ContainsSame(s.questions, q), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return len(s.questions), nil
}

func (s *Store) Sample(ctx context.Context, n int) ([]models.StoredQuestion, error) {
	return storage.SampleFrom(s.questions, n), nil
}

// Save always fails; snapshots are produced by export, not by quizzes
func (s *Store) Save(ctx context.Context, topic string, q *models.QuizQuestion) (*models.StoredQuestion, error) {
	return nil, storage.ErrReadOnly
}

func (s *Store) All(ctx context.Context) ([]models.StoredQuestion, error) {
	out := make([]models.StoredQuestion, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *Store) Close() error { return nil }
