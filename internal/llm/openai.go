// Package llm adapts the OpenAI API to the collaborator interfaces consumed
// by the chat pipeline: generation, moderation and embeddings.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gosuda/vendia/internal/domain"
)

// ErrNoChoices is returned when the API answers without any completion choice.
var ErrNoChoices = errors.New("llm: no choices returned") //nolint:gochecknoglobals // sentinel error

// Client implements domain.Generator, domain.Moderator and domain.Embedder
// on top of a single OpenAI API client.
type Client struct {
	api             *openai.Client
	model           string
	moderationModel string
	embeddingModel  string
	temperature     float32
}

type Options struct {
	APIKey          string
	Model           string  // chat model, e.g. "gpt-4o-mini"
	ModerationModel string  // e.g. "omni-moderation-latest"
	EmbeddingModel  string  // e.g. "text-embedding-3-small"
	Temperature     float32 // chat sampling temperature
}

// New creates a Client. An empty API key returns nil; configuration
// validation rejects a missing key before anything is wired to the client.
func New(opts Options) *Client {
	if opts.APIKey == "" {
		return nil
	}

	return &Client{
		api:             openai.NewClient(opts.APIKey),
		model:           opts.Model,
		moderationModel: opts.ModerationModel,
		embeddingModel:  opts.EmbeddingModel,
		temperature:     opts.Temperature,
	}
}

var _ domain.Generator = (*Client)(nil)
var _ domain.Moderator = (*Client)(nil)
var _ domain.Embedder = (*Client)(nil)

// Generate runs one chat completion with a system instruction and a user
// prompt, returning the raw assistant text.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm.Client.Generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm.Client.Generate: %w", ErrNoChoices)
	}

	return resp.Choices[0].Message.Content, nil
}

// Check classifies text with the moderation endpoint.
func (c *Client) Check(ctx context.Context, text string) (bool, error) {
	resp, err := c.api.Moderations(ctx, openai.ModerationRequest{
		Model: c.moderationModel,
		Input: text,
	})
	if err != nil {
		return false, fmt.Errorf("llm.Client.Check: %w", err)
	}

	if len(resp.Results) == 0 {
		return false, nil
	}

	return resp.Results[0].Flagged, nil
}

// Embed computes the embedding vector of a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("llm.Client.Embed: %w", ErrNoChoices)
	}
	return vecs[0], nil
}

// EmbedBatch computes embedding vectors for a batch of texts, preserving order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("llm.Client.EmbedBatch: %w", err)
	}

	vecs := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
