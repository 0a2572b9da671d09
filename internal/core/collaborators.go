// ABOUTME: Interfaces the engine needs from the outside world
// ABOUTME: Embeddings, chat completions, and the document library
package core

import (
	"context"

	"github.com/harper/quizsmith/internal/models"
)

// Embedder turns text into vectors
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	EmbedOne(ctx context.Context, text string) ([]float64, error)
}

// Completer returns a single JSON object from a chat model
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Answerer returns a free-text chat completion
type Answerer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DocumentSource lists source documents and extracts their text.
// ExtractText returns "" on failure and never errors.
type DocumentSource interface {
	Documents() ([]models.Document, error)
	ExtractText(path string) string
}
