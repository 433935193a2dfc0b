// ABOUTME: OpenAI-compatible client for chat generation and embeddings
// ABOUTME: Works against OpenAI or a local Ollama endpoint via BaseURL
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nattapong/healthqa/internal/config"
	"github.com/nattapong/healthqa/internal/util"
)

// Typed failures surfaced per question by the batch pipeline
var (
	ErrTimeout = errors.New("generation timed out")
	ErrService = errors.New("generation service error")
)

// Client wraps the OpenAI API client with timeout and bounded retry
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxAttempts    int
	retryDelay     time.Duration
}

// New creates a client from configuration
func New(cfg *config.Config) (*Client, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or HEALTHQA_BASE_URL is required")
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiConfig),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		timeout:        cfg.Timeout,
		maxAttempts:    cfg.MaxAttempts,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Generate sends one prompt and returns the model's text. Each attempt gets
// its own timeout; after the retry budget is spent the last failure is
// classified as ErrTimeout or ErrService.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var content string

	err := util.Do(ctx, c.maxAttempts, c.retryDelay, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.1,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		content = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %d attempts: %v", ErrTimeout, c.maxAttempts, err)
		}
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	return content, nil
}

// Embed returns the embedding vector for one text
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var vector []float64

	err := util.Do(ctx, c.maxAttempts, c.retryDelay, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no embeddings returned")
		}

		embedding := resp.Data[0].Embedding
		vector = make([]float64, len(embedding))
		for i, v := range embedding {
			vector[i] = float64(v)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.maxAttempts, err)
	}
	return vector, nil
}
