// ABOUTME: Chunker splits extracted document text into overlapping fixed-size windows
// ABOUTME: Offsets are rune positions so multi-byte text is never split mid-character
package core

import (
	"fmt"
	"strings"

	"github.com/harper/quizsmith/internal/models"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker cuts text into windows of Size runes, each sharing Overlap runes
// with its predecessor
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the window configuration
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w (size=%d, overlap=%d)", ErrInvalidChunkConfig, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// NewDefaultChunker returns a 1000/200 chunker
func NewDefaultChunker() *Chunker {
	return &Chunker{size: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk slides a window over text. The last window always ends at the end of
// the text; no window starts inside an earlier window's tail once the end is
// covered.
func (c *Chunker) Chunk(text string) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	runes := []rune(text)
	n := len(runes)
	step := c.size - c.overlap

	var chunks []models.Chunk
	for start := 0; start < n; start += step {
		end := min(start+c.size, n)
		chunks = append(chunks, models.Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(string(runes[start:end])),
		})
		if end == n {
			break
		}
	}

	return chunks, nil
}
