// ABOUTME: IndexCache builds and memoizes per-document chunk embeddings
// ABOUTME: Keyed by (filename, mtime); concurrent first builds share one call
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/models"
	"golang.org/x/sync/singleflight"
)

const DefaultEmbedBatchSize = 96

// Index is an immutable view of one document version. Vectors is nil when
// embeddings were unavailable at build time.
type Index struct {
	Key     models.DocumentKey
	Chunks  []models.Chunk
	Vectors [][]float64
}

// HasVectors reports whether semantic retrieval is possible
func (i *Index) HasVectors() bool {
	return i != nil && i.Vectors != nil
}

// IndexCache owns every built Index for the process
type IndexCache struct {
	chunker   *Chunker
	embedder  Embedder
	extractor func(path string) string
	batchSize int
	log       *logger.Logger

	mu      sync.RWMutex
	entries map[models.DocumentKey]*Index
	group   singleflight.Group
}

// NewIndexCache creates a cache. embedder may be nil, in which case every
// index is built without vectors.
func NewIndexCache(chunker *Chunker, embedder Embedder, extractor func(path string) string, batchSize int, log *logger.Logger) *IndexCache {
	if chunker == nil {
		chunker = NewDefaultChunker()
	}
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &IndexCache{
		chunker:   chunker,
		embedder:  embedder,
		extractor: extractor,
		batchSize: batchSize,
		log:       logger.OrNop(log),
		entries:   make(map[models.DocumentKey]*Index),
	}
}

// Build returns the cached index for doc or builds it
func (c *IndexCache) Build(ctx context.Context, doc models.Document) (*Index, error) {
	if idx := c.lookup(doc.Key); idx != nil {
		return idx, nil
	}

	// Detached so one caller's cancellation cannot fail the shared build
	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(doc.Key.String(), func() (interface{}, error) {
		// Another caller may have stored it between lookup and Do
		if idx := c.lookup(doc.Key); idx != nil {
			return idx, nil
		}
		idx, err := c.build(buildCtx, doc)
		if err != nil {
			return nil, err
		}
		c.store(idx)
		return idx, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.log.Debug("index build shared", "document", doc.Key.Name)
	}
	return res.Val.(*Index), nil
}

func (c *IndexCache) build(ctx context.Context, doc models.Document) (*Index, error) {
	var text string
	if c.extractor != nil {
		text = c.extractor(doc.Path)
	}

	chunks, err := c.chunker.Chunk(text)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", doc.Key.Name, err)
	}

	idx := &Index{Key: doc.Key, Chunks: chunks}
	idx.Vectors = c.embed(ctx, doc.Key.Name, models.Texts(chunks))
	if idx.Vectors == nil {
		// A cancelled build must not be cached as "no vectors"
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	c.log.Info("built document index",
		"document", doc.Key.Name,
		"chunks", len(chunks),
		"vectors", idx.HasVectors())
	return idx, nil
}

// embed returns one vector per text, or nil when embeddings are unavailable
func (c *IndexCache) embed(ctx context.Context, name string, texts []string) [][]float64 {
	if c.embedder == nil {
		return nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch, err := c.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			c.log.Warn("embedding failed, using positional retrieval", "document", name, "error", err)
			return nil
		}
		if len(batch) != end-start {
			c.log.Warn("embedding count mismatch, using positional retrieval",
				"document", name, "want", end-start, "got", len(batch))
			return nil
		}
		vectors = append(vectors, batch...)
	}
	return vectors
}

func (c *IndexCache) lookup(key models.DocumentKey) *Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// store evicts every other version of the same file before inserting
func (c *IndexCache) store(idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Name == idx.Key.Name && key != idx.Key {
			delete(c.entries, key)
			c.log.Debug("evicted stale index", "document", key.Name)
		}
	}
	c.entries[idx.Key] = idx
}

// Len returns the number of cached indexes
func (c *IndexCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
