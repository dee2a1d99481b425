// Package speech wraps the external speech-recognition collaborators.
package speech

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSpeech is reported when the service finds nothing intelligible in
// a segment. Callers treat it as an empty transcription, not a failure.
var ErrNoSpeech = errors.New("no speech detected")

// interface for single-utterance transcription. The input is a path to a
// transient WAV file owned by the caller.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath string) (string, error)
}

// speech recognition service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// recognition options
type Options struct {
	Language string // BCP-47 tag of the spoken language (default "fr-FR")
	Model    string
	Prompt   string
}

// creates a recognizer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Recognizer, error) {
	if opts.Language == "" {
		opts.Language = "fr-FR"
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIRecognizer(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiRecognizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", provider)
	}
}

// iso639 reduces a BCP-47 tag like "fr-FR" to the bare language code the
// transcription APIs expect.
func iso639(tag string) string {
	for i := 0; i < len(tag); i++ {
		if tag[i] == '-' || tag[i] == '_' {
			return tag[:i]
		}
	}
	return tag
}
