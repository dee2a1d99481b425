package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleTTSBaseURL = "https://translate.google.com/translate_tts"

// per-request text limit imposed by the endpoint
const googleTTSMaxChars = 200

// implements Synthesizer using the unauthenticated Google Translate
// speech endpoint. Long text is split on word boundaries and the
// resulting MP3 parts are concatenated.
type GoogleSynthesizer struct {
	baseURL    string
	options    Options
	httpClient *http.Client
}

func NewGoogleSynthesizer(opts Options) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		baseURL: googleTTSBaseURL,
		options: opts,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// synthesizes text to an MP3 file
func (s *GoogleSynthesizer) Synthesize(
	ctx context.Context,
	text, outputPath string,
) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to synthesize")
	}

	var audio []byte
	for _, part := range splitForSynthesis(text, googleTTSMaxChars) {
		data, err := s.fetchPart(ctx, part)
		if err != nil {
			return err
		}
		audio = append(audio, data...)
	}

	return writeAudioFile(outputPath, audio)
}

func (s *GoogleSynthesizer) fetchPart(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", s.options.Language)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.baseURL+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts failed (status %d)", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return audio, nil
}

// splitForSynthesis breaks text into pieces of at most maxChars, cutting
// at spaces where possible. Words longer than maxChars are hard-split.
func splitForSynthesis(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= maxChars {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		for len(word) > maxChars {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			parts = append(parts, word[:maxChars])
			word = word[maxChars:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= maxChars:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			parts = append(parts, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
