// ABOUTME: Engine ties document resolution, indexing, retrieval, and generation together
// ABOUTME: Owns the process-wide caches so independent engines never share state
package core

import (
	"context"
	"fmt"

	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/models"
)

const DefaultContextK = 8

// Engine generates questions for topics backed by a document library
type Engine struct {
	docs      DocumentSource
	index     *IndexCache
	retriever *Retriever
	generator *Generator
	excluded  []string
	contextK  int
	log       *logger.Logger
}

// EngineOptions carries the collaborators an Engine needs
type EngineOptions struct {
	Documents DocumentSource
	Index     *IndexCache
	Retriever *Retriever
	Generator *Generator
	Excluded  []string
	ContextK  int
	Logger    *logger.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.ContextK <= 0 {
		opts.ContextK = DefaultContextK
	}
	return &Engine{
		docs:      opts.Documents,
		index:     opts.Index,
		retriever: opts.Retriever,
		generator: opts.Generator,
		excluded:  NormalizeTerms(opts.Excluded),
		contextK:  opts.ContextK,
		log:       logger.OrNop(opts.Logger),
	}
}

// Resolve finds the document for a topic label or filename
func (e *Engine) Resolve(topic string) (models.Document, error) {
	docs, err := e.docs.Documents()
	if err != nil {
		return models.Document{}, fmt.Errorf("listing documents: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Key.Name
	}
	name, err := ResolveDocument(topic, names)
	if err != nil {
		return models.Document{}, err
	}
	for _, d := range docs {
		if d.Key.Name == name {
			return d, nil
		}
	}
	return models.Document{}, fmt.Errorf("%w: %q", ErrNoMatch, topic)
}

// Context returns up to k chunks of the topic's document ranked for query
func (e *Engine) Context(ctx context.Context, topic, query string, k int) ([]string, models.Document, error) {
	doc, err := e.Resolve(topic)
	if err != nil {
		return nil, doc, err
	}
	idx, err := e.index.Build(ctx, doc)
	if err != nil {
		return nil, doc, err
	}
	chunks, err := e.retriever.Retrieve(ctx, idx, query, k)
	if err != nil {
		return nil, doc, err
	}
	return chunks, doc, nil
}

// GenerateForTopic resolves the topic's document, retrieves a context pool,
// and generates one question from it
func (e *Engine) GenerateForTopic(ctx context.Context, topic string) (*models.QuizQuestion, error) {
	chunks, doc, err := e.Context(ctx, topic, topic, e.contextK)
	if err != nil {
		return nil, err
	}
	e.log.Debug("retrieved context", "topic", topic, "document", doc.Key.Name, "chunks", len(chunks))
	return e.generator.Generate(ctx, topic, chunks, e.excluded)
}
