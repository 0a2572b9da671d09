// ABOUTME: Test doubles for the engine's collaborators
// ABOUTME: Scripted completer, deterministic embedder, and in-memory document source
package core

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/harper/quizsmith/internal/models"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// scriptedCompleter returns responses in order, repeating the last one
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (s *scriptedCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, user)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	i := min(s.calls-1, len(s.responses)-1)
	return s.responses[i], nil
}

func (s *scriptedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.CompleteJSON(ctx, system, user)
}

// keywordEmbedder maps text to a vector of keyword counts
type keywordEmbedder struct {
	mu         sync.Mutex
	keywords   []string
	batchCalls int
	oneCalls   int
	failBatch  bool
	failOne    bool
	delay      time.Duration
}

func (k *keywordEmbedder) vector(text string) []float64 {
	lower := strings.ToLower(text)
	v := make([]float64, len(k.keywords))
	for i, kw := range k.keywords {
		v[i] = float64(strings.Count(lower, kw))
	}
	return v
}

func (k *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	k.mu.Lock()
	k.batchCalls++
	k.mu.Unlock()
	if k.delay > 0 {
		time.Sleep(k.delay)
	}
	if k.failBatch {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

func (k *keywordEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	k.mu.Lock()
	k.oneCalls++
	k.mu.Unlock()
	if k.failOne {
		return nil, errors.New("embedding service down")
	}
	return k.vector(text), nil
}

func (k *keywordEmbedder) calls() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.batchCalls
}

// memSource serves documents from memory keyed by path
type memSource struct {
	docs  []models.Document
	texts map[string]string
}

func newMemSource() *memSource {
	return &memSource{texts: make(map[string]string)}
}

func (m *memSource) add(name, text string, mtime time.Time) models.Document {
	doc := models.Document{Key: models.DocumentKey{Name: name, ModTime: mtime}, Path: "/docs/" + name}
	for i, d := range m.docs {
		if d.Key.Name == name {
			m.docs[i] = doc
			m.texts[doc.Path] = text
			return doc
		}
	}
	m.docs = append(m.docs, doc)
	m.texts[doc.Path] = text
	return doc
}

func (m *memSource) Documents() ([]models.Document, error) {
	return m.docs, nil
}

func (m *memSource) ExtractText(path string) string {
	return m.texts[path]
}

const validQuestionJSON = `{"question": "What does len([1, 2, 3]) return?", "options": ["1", "2", "3", "4"], "answer": "3", "explanation": "len counts list elements."}`
