package advisor

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when the configured model is an OpenAI one.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates advice with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	opts   Options
}

// NewGeminiClient creates the genai client. Unlike the OpenAI client it
// needs the key up front.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions.BaseURL = opts.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiClient{client: client, opts: opts}, nil
}

func (g *GeminiClient) Advise(ctx context.Context, major string) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	temperature := g.opts.Temperature
	result, err := g.client.Models.GenerateContent(ctx,
		g.opts.Model,
		genai.Text(UserPrompt(major)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   int32(g.opts.MaxTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	advice := Normalize(result.Text())
	if advice == "" {
		return "", errors.New("gemini: empty completion")
	}
	return advice, nil
}
