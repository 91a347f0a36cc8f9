// Package openai implements the primary embedding path against an
// OpenAI-compatible embeddings endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Config configures the embeddings client.
type Config struct {
	APIKeyEnv         string
	Model             string
	Dimension         int
	Timeout           time.Duration
	RequestsPerSecond float64
	TruncateAt        int
}

// Client calls the provider with per-request timeouts and paced
// requests. Input is truncated to the provider limit before sending.
type Client struct {
	client    *openai.Client
	model     string
	dimension int
	timeout   time.Duration
	limiter   *rate.Limiter
	truncate  int
}

// NewClient reads the API key from the configured environment variable.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1536
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TruncateAt == 0 {
		cfg.TruncateAt = 8000
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		client:    openai.NewClient(key),
		model:     cfg.Model,
		dimension: cfg.Dimension,
		timeout:   cfg.Timeout,
		limiter:   limiter,
		truncate:  cfg.TruncateAt,
	}, nil
}

// Embed returns the provider embedding for the text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > c.truncate {
		text = text[:c.truncate]
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}
	if len(vec) != c.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension %d, want %d", len(vec), c.dimension)
	}
	return vec, nil
}

// Dimension returns the provider vector length.
func (c *Client) Dimension() int { return c.dimension }
