// ABOUTME: Generator asks a chat model for a grounded multiple-choice question
// ABOUTME: Bounded attempt loop with strict decoding, exclusion checks, and anti-repeat memory
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/util"
)

const (
	DefaultMaxAttempts = 2
	contextSampleSize  = 3
)

// GeneratorConfig tunes the attempt loop
type GeneratorConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// Generator produces validated questions. It is safe for concurrent use.
type Generator struct {
	completer Completer
	stems     *RecentStems
	cfg       GeneratorConfig
	log       *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewGenerator wires a generator. completer may be nil; Generate then reports
// ErrServiceUnavailable. rng drives every random choice.
func NewGenerator(completer Completer, stems *RecentStems, rng *rand.Rand, cfg GeneratorConfig, log *logger.Logger) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if stems == nil {
		stems = NewRecentStems(DefaultStemMemory)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		completer: completer,
		stems:     stems,
		cfg:       cfg,
		log:       logger.OrNop(log),
		rng:       rng,
	}
}

// Stems exposes the anti-repeat memory
func (g *Generator) Stems() *RecentStems {
	return g.stems
}

// Generate returns one validated question with shuffled options
func (g *Generator) Generate(ctx context.Context, topic string, chunks []string, excluded []string) (*models.QuizQuestion, error) {
	terms := NormalizeTerms(excluded)

	usable := make([]string, 0, len(chunks))
	for _, c := range FilterChunks(chunks, terms) {
		if strings.TrimSpace(c) != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoUsableContext
	}

	if g.completer == nil {
		return nil, ErrServiceUnavailable
	}

	contextBlock := g.sampleContext(usable)
	log := g.log.With("topic", topic)

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(g.cfg.RetryDelay, attempt)); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q, err := g.safeAttempt(ctx, topic, contextBlock, terms)
		if err == nil {
			g.stems.Add(topic, q.Question)
			g.shuffleOptions(q)
			log.Debug("generated question", "attempt", attempt+1)
			return q, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		log.Warn("generation attempt failed", "attempt", attempt+1, "error", err)
	}

	return nil, fmt.Errorf("%w (%d attempts): %w", ErrGenerationExhausted, g.cfg.MaxAttempts, lastErr)
}

// safeAttempt turns a collaborator panic into a failed attempt
func (g *Generator) safeAttempt(ctx context.Context, topic, contextBlock string, terms []string) (q *models.QuizQuestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			q, err = nil, fmt.Errorf("attempt panicked: %v", r)
		}
	}()
	return g.attempt(ctx, topic, contextBlock, terms)
}

func (g *Generator) attempt(ctx context.Context, topic, contextBlock string, terms []string) (*models.QuizQuestion, error) {
	g.rngMu.Lock()
	difficulty := difficulties[g.rng.IntN(len(difficulties))]
	style := questionStyles[g.rng.IntN(len(questionStyles))]
	g.rngMu.Unlock()

	prompt := buildGeneratorPrompt(promptSpec{
		Topic:      topic,
		Context:    contextBlock,
		Style:      style,
		Difficulty: difficulty,
		Avoid:      g.stems.List(topic),
		Excluded:   terms,
	})

	raw, err := g.completer.CompleteJSON(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	q, err := DecodeQuestion(raw)
	if err != nil {
		return nil, err
	}
	if Violates(q.CombinedText(), terms) {
		return nil, errors.New("question mentions an excluded term")
	}
	return q, nil
}

// sampleContext picks up to three distinct chunks in random order
func (g *Generator) sampleContext(chunks []string) string {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()

	picked := make([]string, len(chunks))
	copy(picked, chunks)
	g.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > contextSampleSize {
		picked = picked[:contextSampleSize]
	}
	return strings.Join(picked, contextSeparator)
}

func (g *Generator) shuffleOptions(q *models.QuizQuestion) {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	g.rng.Shuffle(len(q.Options), func(i, j int) { q.Options[i], q.Options[j] = q.Options[j], q.Options[i] })
}

// DecodeQuestion strictly parses a model response into a validated question.
// Unknown fields, trailing data, and shape violations are errors.
func DecodeQuestion(raw string) (*models.QuizQuestion, error) {
	raw = stripCodeFence(raw)

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var q models.QuizQuestion
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("decoding question: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decoding question: trailing data after JSON object")
	}

	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	q.Explanation = strings.TrimSpace(q.Explanation)
	for i := range q.Options {
		q.Options[i] = strings.TrimSpace(q.Options[i])
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
