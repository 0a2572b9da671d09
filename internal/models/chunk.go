// ABOUTME: Chunk is an overlapping window of a document's extracted text
// ABOUTME: Start/End are rune offsets into the source text before trimming
package models

// Chunk represents one retrieval unit cut from a document
type Chunk struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Texts returns the chunk texts in order
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
