package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-pro"

// GeminiCompleter requests JSON output from the Gemini API
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a completer for model. baseURL overrides the API
// endpoint when non-empty.
func NewGeminiCompleter(ctx context.Context, apiKey, model, baseURL string) (*GeminiCompleter, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Complete implements Completer
func (c *GeminiCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    recipeSchema,
		})
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
