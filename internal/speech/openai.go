package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Recognizer using the OpenAI Audio API
type OpenAIRecognizer struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAIRecognizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAIRecognizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes a single utterance
func (r *OpenAIRecognizer) Recognize(
	ctx context.Context,
	wavPath string,
) (string, error) {
	if _, err := os.Stat(wavPath); os.IsNotExist(err) {
		return "", fmt.Errorf("audio file not found: %s", wavPath)
	}

	file, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:     file,
		Model:    openai.AudioModel(r.model),
		Language: openai.String(iso639(r.options.Language)),
	}
	if r.options.Prompt != "" {
		params.Prompt = openai.String(r.options.Prompt)
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}
