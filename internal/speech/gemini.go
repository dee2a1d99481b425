package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// implements Recognizer using Google Gemini
type GeminiRecognizer struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiRecognizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiRecognizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes a single utterance
func (r *GeminiRecognizer) Recognize(
	ctx context.Context,
	wavPath string,
) (string, error) {
	if _, err := os.Stat(wavPath); os.IsNotExist(err) {
		return "", fmt.Errorf("audio file not found: %s", wavPath)
	}

	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(r.buildPrompt()),
		genai.NewPartFromBytes(data, "audio/wav"),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" || strings.EqualFold(text, "[no speech]") {
		return "", ErrNoSpeech
	}

	return text, nil
}

func (r *GeminiRecognizer) buildPrompt() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Transcribe this audio clip. The speaker uses language %q.\n",
		r.options.Language,
	))
	sb.WriteString("Return only the spoken words, with normal punctuation.\n")
	sb.WriteString("If the clip contains no intelligible speech, return exactly: [no speech]")
	if r.options.Prompt != "" {
		sb.WriteString("\nAdditional context: ")
		sb.WriteString(r.options.Prompt)
	}
	return sb.String()
}
