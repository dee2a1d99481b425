package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openaiBaseURL = "https://api.openai.com/v1"

// implements Synthesizer using the OpenAI speech endpoint
type OpenAISynthesizer struct {
	apiKey     string
	baseURL    string
	model      string
	options    Options
	httpClient *http.Client
}

func NewOpenAISynthesizer(apiKey string, opts Options) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "tts-1"
	}

	return &OpenAISynthesizer{
		apiKey:  apiKey,
		baseURL: openaiBaseURL,
		model:   model,
		options: opts,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// synthesizes text to an MP3 file
func (s *OpenAISynthesizer) Synthesize(
	ctx context.Context,
	text, outputPath string,
) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to synthesize")
	}

	voice := s.options.Voice
	if voice == "" {
		voice = "alloy"
	}

	body := map[string]any{
		"model":           s.model,
		"input":           text,
		"voice":           voice,
		"response_format": "mp3",
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/audio/speech",
		bytes.NewReader(data),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	return writeAudioFile(outputPath, audio)
}
