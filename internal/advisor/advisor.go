// Package advisor turns a student's major into one short line of study
// advice by calling an external chat-completion API.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aanand-mishra/students-advice-api/internal/config"
)

// Advisor generates advice for a major. Implementations return the text
// already passed through Normalize.
type Advisor interface {
	Advise(ctx context.Context, major string) (string, error)
}

// SystemPrompt is sent as the system instruction on every call.
const SystemPrompt = "You are a concise academic advisor. " +
	"Give exactly one piece of advice in about 15 words. " +
	"No emoji, no quotation marks, no line breaks."

// UserPrompt returns the user instruction for major.
func UserPrompt(major string) string {
	return fmt.Sprintf("Give one short advice for a student majoring in %s.", major)
}

// Options are the generation parameters shared by every provider.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// New builds the advisor selected by cfg.Provider.
func New(cfg config.Advisor) (Advisor, error) {
	opts := Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(opts), nil
	case config.ProviderGemini:
		opts.APIKey = cfg.GeminiAPIKey
		// the OpenAI defaults make no sense against the Gemini API
		if opts.Model == "" || strings.HasPrefix(opts.Model, "gpt-") {
			opts.Model = DefaultGeminiModel
		}
		if strings.Contains(opts.BaseURL, "openai.com") {
			opts.BaseURL = ""
		}
		return NewGeminiClient(context.Background(), opts)
	default:
		return nil, fmt.Errorf("advisor: unknown provider %q", cfg.Provider)
	}
}

// lineBreaks turns every line or paragraph separator into a single space.
var lineBreaks = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"\u2028", " ",
	"\u2029", " ",
)

// Normalize makes raw model output safe to store: one line, no
// surrounding whitespace or quotes. Unicode spaces such as U+00A0 count as
// whitespace.
func Normalize(raw string) string {
	return strings.TrimFunc(lineBreaks.Replace(raw), func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\''
	})
}
