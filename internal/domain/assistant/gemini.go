package assistant

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	// DefaultEndpoint is the Gemini API base URL. The SDK appends the API
	// version and model path.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/"
	DefaultModel    = "gemini-3-flash-preview"
)

var errNoAPIKey = errors.New("gemini: api key not configured")

// GeminiClient answers prompts through the Gemini generateContent API.
type GeminiClient struct {
	Endpoint string
	Model    string

	models *genai.Models
}

// NewGeminiClient builds a client for the Gemini API at endpoint. An empty
// endpoint or model selects the defaults.
func NewGeminiClient(ctx context.Context, endpoint, model, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: endpoint},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiClient{Endpoint: endpoint, Model: model, models: client.Models}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if systemInstruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		}
	}
	resp, err := c.models.GenerateContent(ctx, c.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp.Text(), nil
}
