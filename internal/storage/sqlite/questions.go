// ABOUTME: Question bank operations for SQLite
// ABOUTME: Implements storage.Provider plus per-topic stats
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
)

// QuestionStore handles question persistence
type QuestionStore struct {
	db *DB
}

var _ storage.Provider = (*QuestionStore)(nil)

// NewQuestionStore creates a new QuestionStore
func NewQuestionStore(db *DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// Save stores a question under topic
func (s *QuestionStore) Save(ctx context.Context, topic string, q *models.QuizQuestion) (*models.StoredQuestion, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to store invalid question: %w", err)
	}
	stored := storage.NewStoredQuestion(topic, q)

	options, err := json.Marshal(stored.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO questions (id, topic, question, options, answer, explanation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.Topic, stored.Question, string(options), stored.Answer, stored.Explanation, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}
	return stored, nil
}

// Exists reports whether a question with the same text, answer, and options is stored
func (s *QuestionStore) Exists(ctx context.Context, q *models.QuizQuestion) (bool, error) {
	candidates, err := s.query(ctx, `
		SELECT id, topic, question, options, answer, explanation, created_at
		FROM questions
		WHERE question = ?
	`, q.Question)
	if err != nil {
		return false, err
	}
	return storage.ContainsSame(candidates, q), nil
}

// Count returns the number of stored questions
func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// Sample returns up to n random questions
func (s *QuestionStore) Sample(ctx context.Context, n int) ([]models.StoredQuestion, error) {
	if n <= 0 {
		return nil, nil
	}
	return s.query(ctx, `
		SELECT id, topic, question, options, answer, explanation, created_at
		FROM questions
		ORDER BY RANDOM()
		LIMIT ?
	`, n)
}

// All returns every question, oldest first
func (s *QuestionStore) All(ctx context.Context) ([]models.StoredQuestion, error) {
	return s.query(ctx, `
		SELECT id, topic, question, options, answer, explanation, created_at
		FROM questions
		ORDER BY created_at, id
	`)
}

// ByTopic returns every question stored for topic
func (s *QuestionStore) ByTopic(ctx context.Context, topic string) ([]models.StoredQuestion, error) {
	return s.query(ctx, `
		SELECT id, topic, question, options, answer, explanation, created_at
		FROM questions
		WHERE topic = ?
		ORDER BY created_at, id
	`, topic)
}

// TopicCount is one row of bank statistics
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// CountByTopic groups the bank by topic
func (s *QuestionStore) CountByTopic(ctx context.Context) ([]TopicCount, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT topic, COUNT(*) FROM questions GROUP BY topic ORDER BY topic
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by topic: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Delete removes a question by id
func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question not found: %s", id)
	}
	return nil
}

// Close closes the underlying database
func (s *QuestionStore) Close() error {
	return s.db.Close()
}

func (s *QuestionStore) query(ctx context.Context, query string, args ...interface{}) ([]models.StoredQuestion, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.StoredQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*models.StoredQuestion, error) {
	var (
		q       models.StoredQuestion
		options string
	)
	if err := rows.Scan(&q.ID, &q.Topic, &q.Question, &options, &q.Answer, &q.Explanation, &q.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options for %s: %w", q.ID, err)
	}
	return &q, nil
}
