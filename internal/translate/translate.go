// Package translate wraps the external machine-translation collaborators.
package translate

import (
	"context"
	"fmt"
	"strings"
)

// interface for single-utterance text translation
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

type Options struct {
	SourceLanguage string // default "French"
	TargetLanguage string // default "English"
	Model          string
	Prompt         string
}

func (o *Options) applyDefaults() {
	if o.SourceLanguage == "" {
		o.SourceLanguage = "French"
	}
	if o.TargetLanguage == "" {
		o.TargetLanguage = "English"
	}
}

// creates a Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	opts.applyDefaults()

	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt creates the translation prompt shared by the LLM providers.
func BuildPrompt(opts Options, text string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"Translate the following %s utterance to %s.\n\n",
		opts.SourceLanguage,
		opts.TargetLanguage,
	))
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. This is a single spoken utterance from a language-learning recording.\n")
	sb.WriteString("2. Return ONLY the translated text, nothing else.\n")
	sb.WriteString("3. Do not add quotes, explanations, or markdown formatting.\n")

	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("\nAdditional instructions: %s\n", opts.Prompt))
	}

	sb.WriteString("\nUtterance:\n")
	sb.WriteString(text)

	return sb.String()
}

// cleanResponse strips the wrapping LLMs sometimes add despite the prompt:
// code fences and a single level of surrounding quotes.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}
