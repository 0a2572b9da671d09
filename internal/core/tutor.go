// ABOUTME: Tutor answers questions about a single document from retrieved excerpts
// ABOUTME: Keeps per-document chat history; without a chat model it returns the excerpts
package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Preset is a canned tutor question
type Preset string

const (
	PresetSummary     Preset = "summary"
	PresetKeyConcepts Preset = "concepts"
	PresetCodeExample Preset = "code"
	PresetPitfalls    Preset = "pitfalls"
	PresetCustom      Preset = "custom"
)

var presetPrompts = map[Preset]string{
	PresetSummary:     "Summarize the PDF in 5-7 bullet points focusing on the main ideas.",
	PresetKeyConcepts: "List the key concepts and define each in one sentence.",
	PresetCodeExample: "Pick one important code example from the text and explain how it works step by step.",
	PresetPitfalls:    "What common mistakes or pitfalls should a learner avoid, according to this PDF?",
}

// PresetQuestion expands a preset. For PresetCustom the custom text is used.
func PresetQuestion(p Preset, custom string) (string, error) {
	if p == PresetCustom || p == "" {
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", fmt.Errorf("custom question is empty")
		}
		return custom, nil
	}
	q, ok := presetPrompts[p]
	if !ok {
		return "", fmt.Errorf("unknown preset %q", p)
	}
	return q, nil
}

// maxHistoryTurns bounds each document's chat; older turns are dropped
const maxHistoryTurns = 40

const tutorSystemPrompt = "You are a helpful assistant answering questions strictly using the provided PDF excerpts. " +
	"If the answer is not in the excerpts, say you don't know and suggest where in the PDF to look."

// Turn is one chat message
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TutorAnswer is the result of one Ask
type TutorAnswer struct {
	Document string   `json:"document"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Excerpts []string `json:"excerpts"`
	// FromModel is false when the excerpts were returned without a chat model
	FromModel bool `json:"from_model"`
}

// Tutor is safe for concurrent use
type Tutor struct {
	engine   *Engine
	answerer Answerer
	k        int

	mu      sync.Mutex
	history map[string][]Turn
}

// NewTutor creates a tutor; answerer may be nil
func NewTutor(engine *Engine, answerer Answerer, k int) *Tutor {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Tutor{engine: engine, answerer: answerer, k: k, history: make(map[string][]Turn)}
}

// Ask answers question using the k most relevant excerpts of document
func (t *Tutor) Ask(ctx context.Context, document, question string) (*TutorAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	excerpts, doc, err := t.engine.Context(ctx, document, question, t.k)
	if err != nil {
		return nil, err
	}

	answer := &TutorAnswer{Document: doc.Key.Name, Question: question, Excerpts: excerpts}
	block := strings.Join(excerpts, contextSeparator)

	if t.answerer == nil {
		answer.Answer = "No chat model configured. Most relevant excerpts:\n\n" + block
	} else {
		user := "Use only this PDF context to answer.\n\nPDF EXCERPTS:\n" + block + "\n\nQUESTION: " + question
		text, err := t.answerer.Complete(ctx, tutorSystemPrompt, user)
		if err != nil {
			return nil, fmt.Errorf("answering question: %w", err)
		}
		answer.Answer = strings.TrimSpace(text)
		answer.FromModel = true
	}

	t.mu.Lock()
	h := append(t.history[doc.Key.Name],
		Turn{Role: "user", Content: question},
		Turn{Role: "assistant", Content: answer.Answer})
	if len(h) > maxHistoryTurns {
		h = append([]Turn(nil), h[len(h)-maxHistoryTurns:]...)
	}
	t.history[doc.Key.Name] = h
	t.mu.Unlock()

	return answer, nil
}

// History returns a copy of the chat for a document name or topic
func (t *Tutor) History(document string) []Turn {
	key := t.historyKey(document)
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.history[key]
	out := make([]Turn, len(h))
	copy(out, h)
	return out
}

// ClearHistory forgets the chat for a document name or topic
func (t *Tutor) ClearHistory(document string) {
	key := t.historyKey(document)
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.history, key)
}

// historyKey maps a topic to the document name Ask records under
func (t *Tutor) historyKey(document string) string {
	t.mu.Lock()
	_, known := t.history[document]
	t.mu.Unlock()
	if known {
		return document
	}
	if doc, err := t.engine.Resolve(document); err == nil {
		return doc.Key.Name
	}
	return document
}
