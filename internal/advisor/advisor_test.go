package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-advice-api/internal/config"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Take foundational stats courses early.", "Take foundational stats courses early."},
		{"surrounding whitespace", "  \n Take notes.\t\n", "Take notes."},
		{"double quotes", `"Practice daily."`, "Practice daily."},
		{"single quotes", "'Practice daily.'", "Practice daily."},
		{"quotes inside whitespace", " \"Practice daily.\" \n", "Practice daily."},
		{"embedded newlines", "Learn SQL.\nBuild projects.", "Learn SQL. Build projects."},
		{"crlf", "Learn SQL.\r\nBuild projects.", "Learn SQL. Build projects."},
		{"inner quotes kept", `Read "Clean Code" early.`, `Read "Clean Code" early.`},
		{"non-breaking spaces", "\u00a0Take notes.\u00a0", "Take notes."},
		{"line separator", "Take notes.\u2028Go.", "Take notes. Go."},
		{"paragraph separator", "Take notes.\u2029Go.", "Take notes. Go."},
		{"ideographic space and quotes", "\u3000\"Take notes.\"\u3000", "Take notes."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\n")
		})
	}
}

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, "Give one short advice for a student majoring in Data Science.", UserPrompt("Data Science"))
}

func TestNewSelectsProvider(t *testing.T) {
	adv, err := New(config.Advisor{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini", MaxTokens: 50})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, adv)

	_, err = New(config.Advisor{Provider: config.ProviderGemini})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	adv, err = New(config.Advisor{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
		Model:        "gpt-4o-mini",
		BaseURL:      "https://api.openai.com/v1",
	})
	require.NoError(t, err)
	require.IsType(t, &GeminiClient{}, adv)
	assert.Equal(t, DefaultGeminiModel, adv.(*GeminiClient).opts.Model)

	_, err = New(config.Advisor{Provider: "claude"})
	assert.Error(t, err)
}
