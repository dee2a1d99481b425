// Package tts wraps the external text-to-speech collaborators. Each
// synthesizer is bound to one language/voice and writes compressed audio
// to a caller-supplied path.
package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// interface for speech synthesis
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// speech synthesis service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGoogle Provider = "google"
)

// synthesis options
type Options struct {
	Language string // ISO 639-1 code of the text, default "en"
	Voice    string // provider-specific voice identifier
	Model    string
}

func (o *Options) applyDefaults() {
	if o.Language == "" {
		o.Language = "en"
	}
}

// creates a synthesizer based on provider. The Google endpoint is
// unauthenticated; its apiKey argument is ignored.
func Factory(provider Provider, apiKey string, opts Options) (Synthesizer, error) {
	opts.applyDefaults()

	switch provider {
	case ProviderOpenAI:
		return NewOpenAISynthesizer(apiKey, opts)
	case ProviderGoogle:
		return NewGoogleSynthesizer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", provider)
	}
}

func writeAudioFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
