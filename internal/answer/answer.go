// Package answer turns an assembled retrieval context into a natural
// language answer through the chat completion API.
package answer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a research assistant that answers questions based on multiple " +
	"research papers. Provide comprehensive answers and cite which papers support your statements."

const noContextAnswer = "I could not find relevant information in the indexed papers to answer this question."

// Config tunes the chat completion request.
type Config struct {
	APIKeyEnv   string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

func (c *Config) withDefaults() {
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = goopenai.GPT4
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 600
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.3
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Synthesizer produces an answer from a question and its retrieval
// context.
type Synthesizer struct {
	client      *goopenai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// New builds a synthesizer from the config. The API key is read from
// the configured environment variable.
func New(cfg Config) (*Synthesizer, error) {
	cfg.withDefaults()
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("environment variable %s is not set", cfg.APIKeyEnv)
	}
	return &Synthesizer{
		client:      goopenai.NewClient(key),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Answer sends the question with its supporting context to the model.
// An empty context short-circuits to a fixed response; a provider error
// degrades to an error message in the answer text so the chat endpoint
// still returns its sources.
func (s *Synthesizer) Answer(ctx context.Context, question, retrievalContext string) string {
	if strings.TrimSpace(retrievalContext) == "" {
		return noContextAnswer
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Question: %s\n\nContext from research papers:\n%s\n\n"+
					"Please provide a comprehensive answer based on the information from these papers. "+
					"When possible, mention which specific papers support different points.",
				question, retrievalContext)},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return fmt.Sprintf("Error generating answer: %v", err)
	}
	if len(resp.Choices) == 0 {
		return noContextAnswer
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
