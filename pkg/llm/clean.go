package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
)

// Generation defaults for cleaning: low temperature for stable output and
// room for long transcripts.
const (
	DefaultMaxTokens   = 16000
	DefaultTemperature = 0.1
)

// Placeholder is replaced with the document text in a prompt template.
const Placeholder = "{document_text}"

// DefaultPrompt asks the model to keep only spoken words.
const DefaultPrompt = `You are cleaning a Yiddish transcript document. Your task is to extract only the actual spoken words and remove everything else.

Remove all non-speech content such as: titles, headings, section markers, editorial notes, timestamps, page numbers, speaker labels, annotations, and any other meta-information.

Keep only the actual spoken words. Maintain the original language and paragraph structure.

Return ONLY the cleaned text with no explanation or commentary.

---

` + Placeholder

// ErrEmptyText is returned by Clean for blank input.
var ErrEmptyText = errors.New("document text is empty")

// Result is the outcome of an LLM cleaning run.
type Result struct {
	CleanedText string        `json:"cleaned_text" yaml:"cleaned_text"`
	Provider    string        `json:"provider" yaml:"provider"`
	Model       string        `json:"model_used" yaml:"model_used"`
	Usage       Usage         `json:"usage" yaml:"usage"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// BuildPrompt substitutes text into template. An empty template means
// DefaultPrompt; a template without the placeholder gets the text appended.
func BuildPrompt(template, text string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPrompt
	}
	if !strings.Contains(template, Placeholder) {
		return template + "\n\n" + text
	}
	return strings.ReplaceAll(template, Placeholder, text)
}

// Clean sends text to p and returns the trimmed reply.
func Clean(ctx context.Context, p Provider, text, template string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	log := logger.Component("llm")
	log.Debug("cleaning with LLM", "provider", p.Name(), "model", p.Model(), "chars", len(text))

	resp, err := p.Execute(ctx, Request{
		Messages:    []Message{{Role: RoleUser, Content: BuildPrompt(template, text)}},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	model := resp.Model
	if model == "" {
		model = p.Model()
	}
	log.Debug("LLM cleaning finished",
		"provider", p.Name(),
		"model", model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", resp.Duration)

	return &Result{
		CleanedText: strings.TrimSpace(resp.Content),
		Provider:    p.Name(),
		Model:       model,
		Usage:       resp.Usage,
		Duration:    resp.Duration,
	}, nil
}

// PlainText returns the cleaned text.
func (r *Result) PlainText() string { return r.CleanedText }
