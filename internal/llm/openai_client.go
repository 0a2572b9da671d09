// ABOUTME: OpenAI client for embeddings and chat completions
// ABOUTME: text-embedding-3-small for retrieval, gpt-4o-mini (configurable) for questions and tutoring
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/quizsmith/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Generation sampling
	QuestionTemperature float32
	AnswerTemperature   float32
	AnswerMaxTokens     int
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:              apiKey,
		ChatModel:           DefaultChatModel,
		EmbeddingModel:      DefaultEmbeddingModel,
		Timeout:             30 * time.Second,
		MaxRetries:          0,
		RetryDelay:          2 * time.Second,
		QuestionTemperature: 0.7,
		AnswerTemperature:   0.2,
		AnswerMaxTokens:     500,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client *openai.Client
	cfg    ClientConfig
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := *config
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// ChatModel returns the configured chat model name
func (c *OpenAIClient) ChatModel() string {
	return c.cfg.ChatModel
}

// withRetry runs call up to MaxRetries+1 times, each under its own timeout
func (c *OpenAIClient) withRetry(ctx context.Context, call func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(c.cfg.RetryDelay, attempt)); err != nil {
				return err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		err := call(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return lastErr
}

// EmbedBatch embeds texts in one request, preserving order
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float64
	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.cfg.EmbeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}

		out = make([][]float64, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(texts) {
				return fmt.Errorf("embedding index %d out of range", d.Index)
			}
			out[d.Index] = toFloat64(d.Embedding)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	return out, nil
}

// EmbedOne embeds a single text
func (c *OpenAIClient) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return vecs[0], nil
}

// CompleteJSON asks the chat model for a single JSON object
func (c *OpenAIClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            c.cfg.ChatModel,
		Messages:         messages(system, user),
		Temperature:      c.cfg.QuestionTemperature,
		TopP:             0.95,
		PresencePenalty:  0.4,
		FrequencyPenalty: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	content, err := c.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate question: %w", err)
	}
	return content, nil
}

// Complete returns a free-text answer with low temperature
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages(system, user),
		Temperature: c.cfg.AnswerTemperature,
		MaxTokens:   c.cfg.AnswerMaxTokens,
	}
	content, err := c.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to answer: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var content string
	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

func messages(system, user string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: user,
		},
	}
}

// Convert []float32 to []float64
func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
