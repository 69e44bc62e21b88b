package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// APIVersion is the Gemini API version the client targets.
const APIVersion = "v1beta"

// Client calls Gemini generateContent through the genai SDK. The key
// travels in the x-goog-api-key header, never in the URL.
type Client struct {
	model  string
	models *genai.Models
}

// NewClient builds a client for model. baseURL overrides the public
// endpoint, e.g. "https://generativelanguage.googleapis.com/"; empty keeps
// the SDK default. An empty apiKey returns ErrDisabled.
func NewClient(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: new client: %w", err)
	}
	return &Client{model: model, models: gc.Models}, nil
}

func (c *Client) CompleteText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *Client) CompleteJSON(ctx context.Context, prompt string, schema Schema, out any) error {
	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenai(schema),
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("ai: malformed JSON response: %w", err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}
	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toGenai converts the assistant's schema shapes into SDK schemas.
func toGenai(s Schema) *genai.Schema {
	out := &genai.Schema{Type: genai.Type(s.Type), Required: s.Required}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenai(v)
		}
	}
	if s.Items != nil {
		out.Items = toGenai(*s.Items)
	}
	return out
}
