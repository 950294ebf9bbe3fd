// Package gemini wraps the google.golang.org/genai client for the two
// calls the dashboard makes: schema-constrained JSON and free text.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Client calls one Gemini model.
type Client struct {
	models *genai.Models
	model  string
}

// NewClient creates a client for the Gemini API using apiKey.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini.NewClient: create genai client: %w", err)
	}
	return &Client{models: client.Models, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// GenerateJSON asks for an application/json response shaped by schema
// and returns the raw response text.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
}

// GenerateText returns the model's plain text answer to prompt.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	log := logger.FromContext(ctx)

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if usage := resp.UsageMetadata; usage != nil {
		log.Debug().
			Str("model", c.model).
			Int32("tokens_input", usage.PromptTokenCount).
			Int32("tokens_output", usage.CandidatesTokenCount).
			Msg("Model call finished")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}
