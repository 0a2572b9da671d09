// ABOUTME: Retriever ranks a document's chunks against a query by cosine similarity
// ABOUTME: Falls back to the first k chunks when vectors are unavailable
package core

import (
	"context"
	"math"
	"sort"

	"github.com/harper/quizsmith/internal/logger"
)

const DefaultTopK = 4

// Retriever selects context chunks for a query
type Retriever struct {
	embedder Embedder
	log      *logger.Logger
}

// NewRetriever creates a retriever; embedder may be nil
func NewRetriever(embedder Embedder, log *logger.Logger) *Retriever {
	return &Retriever{embedder: embedder, log: logger.OrNop(log)}
}

// Retrieve returns at most k chunk texts, most similar first
func (r *Retriever) Retrieve(ctx context.Context, idx *Index, query string, k int) ([]string, error) {
	if idx == nil || len(idx.Chunks) == 0 {
		return nil, ErrNoContent
	}
	if k <= 0 {
		k = DefaultTopK
	}

	if !idx.HasVectors() || r.embedder == nil {
		return positional(idx, k), nil
	}

	queryVec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warn("query embedding failed, using positional retrieval", "document", idx.Key.Name, "error", err)
		return positional(idx, k), nil
	}

	scores := make([]float64, len(idx.Vectors))
	for i, vec := range idx.Vectors {
		scores[i] = CosineSimilarity(queryVec, vec)
	}

	order := RankByScores(scores, k)
	out := make([]string, len(order))
	for i, ci := range order {
		out[i] = idx.Chunks[ci].Text
	}
	return out, nil
}

func positional(idx *Index, k int) []string {
	n := min(k, len(idx.Chunks))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = idx.Chunks[i].Text
	}
	return out
}

// RankByScores returns the indices of the k highest scores, descending.
// Equal scores keep their original order.
func RankByScores(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k < len(order) {
		order = order[:k]
	}
	return order
}

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 for mismatched lengths
// and zero vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
