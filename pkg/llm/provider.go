// Package llm cleans transcripts with a language model instead of the rule
// pipeline. Providers share one interface; OpenAI-compatible services
// (OpenRouter, Groq, Gemini, Ollama) reuse the OpenAI client with their
// own base URL.
package llm

import (
	"context"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role
	Content string
}

// Request represents a completion request to the LLM.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
}

// Response represents the result of an LLM execution.
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
	Model        string // as reported by the provider
	Duration     time.Duration
}

// Provider is the interface every LLM backend implements.
type Provider interface {
	// Execute sends a completion request and returns the response.
	Execute(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier (e.g., "openrouter", "anthropic").
	Name() string

	// Model returns the configured model name.
	Model() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// HTTPReferer and AppTitle are sent to OpenRouter for attribution.
	HTTPReferer string `mapstructure:"http_referer"`
	AppTitle    string `mapstructure:"app_title"`
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		MaxRetries:  3,
		Timeout:     300 * time.Second,
		HTTPReferer: "https://github.com/Shloimy15e/clean-yiddish-transcripts",
		AppTitle:    "Yiddish Transcript Cleaner",
	}
}
