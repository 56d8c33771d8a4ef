package llm

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownProvider is returned by NewProvider for unregistered names.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrMissingAPIKey is returned by providers that need a key when none is
// configured.
var ErrMissingAPIKey = errors.New("API key is required")

// ProviderFactory creates providers from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	DefaultModel string `json:"default_model" yaml:"default_model"`
	RequiresKey  bool   `json:"requires_key" yaml:"requires_key"`
	// EnvKey is the environment variable DetectProvider looks at.
	EnvKey string `json:"env_key,omitempty" yaml:"env_key,omitempty"`
}

type registration struct {
	info    ProviderInfo
	factory ProviderFactory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registration{}
)

// Base URLs of the OpenAI-compatible services.
const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	groqBaseURL       = "https://api.groq.com/openai/v1"
	googleBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai/"
	ollamaBaseURL     = "http://localhost:11434/v1"
)

func init() {
	RegisterProvider(ProviderInfo{
		Name: "openai", Title: "OpenAI", Description: "OpenAI's GPT and o-series models",
		DefaultModel: "gpt-4o", RequiresKey: true, EnvKey: "OPENAI_API_KEY",
	}, func(cfg ProviderConfig) (Provider, error) {
		return NewOpenAIProvider("openai", cfg)
	})
	RegisterProvider(ProviderInfo{
		Name: "anthropic", Title: "Anthropic", Description: "Anthropic's Claude models",
		DefaultModel: "claude-sonnet-4-20250514", RequiresKey: true, EnvKey: "ANTHROPIC_API_KEY",
	}, func(cfg ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
	RegisterProvider(ProviderInfo{
		Name: "openrouter", Title: "OpenRouter", Description: "Access to all major models via a single API",
		DefaultModel: "openai/gpt-4o", RequiresKey: true, EnvKey: "OPENROUTER_API_KEY",
	}, compatible("openrouter", openRouterBaseURL))
	RegisterProvider(ProviderInfo{
		Name: "groq", Title: "Groq", Description: "Fast inference, free tier available",
		DefaultModel: "llama-3.3-70b-versatile", RequiresKey: true, EnvKey: "GROQ_API_KEY",
	}, compatible("groq", groqBaseURL))
	RegisterProvider(ProviderInfo{
		Name: "google", Title: "Google", Description: "Google's Gemini models",
		DefaultModel: "gemini-2.0-flash", RequiresKey: true, EnvKey: "GEMINI_API_KEY",
	}, compatible("google", googleBaseURL))
	RegisterProvider(ProviderInfo{
		Name: "ollama", Title: "Ollama (Local)", Description: "Run models locally, no API key needed",
		DefaultModel: "llama3.2:latest",
	}, compatible("ollama", ollamaBaseURL))
}

// compatible builds a factory for an OpenAI-compatible service.
func compatible(name, baseURL string) ProviderFactory {
	return func(cfg ProviderConfig) (Provider, error) {
		if cfg.BaseURL == "" {
			cfg.BaseURL = baseURL
		}
		return NewOpenAIProvider(name, cfg)
	}
}

// NewProvider creates a provider by name, filling in the provider's default
// model when cfg has none.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	registryMu.RLock()
	reg, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownProvider, name, strings.Join(AvailableProviders(), ", "))
	}
	if cfg.Model == "" {
		cfg.Model = reg.info.DefaultModel
	}
	if reg.info.RequiresKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", reg.info.Name, ErrMissingAPIKey)
	}
	return reg.factory(cfg)
}

// RegisterProvider adds or replaces a provider factory.
func RegisterProvider(info ProviderInfo, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[info.Name] = registration{info: info, factory: factory}
}

// AvailableProviders returns the registered provider names, sorted.
func AvailableProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Providers describes the registered providers, sorted by name.
func Providers() []ProviderInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]ProviderInfo, 0, len(registry))
	for _, reg := range registry {
		out = append(out, reg.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultModel returns the default model for a provider, or "".
func DefaultModel(provider string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[provider].info.DefaultModel
}

// DetectProvider picks a provider from the API keys in the environment.
// Priority: OpenRouter, Anthropic, OpenAI, Groq, Google, then Ollama which
// needs no key.
func DetectProvider() (provider string, apiKey string) {
	for _, name := range []string{"openrouter", "anthropic", "openai", "groq", "google"} {
		registryMu.RLock()
		env := registry[name].info.EnvKey
		registryMu.RUnlock()
		if env == "" {
			continue
		}
		if key := os.Getenv(env); key != "" {
			return name, key
		}
	}
	return "ollama", ""
}
