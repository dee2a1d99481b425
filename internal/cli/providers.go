package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lbreton/ecoute/internal/speech"
	"github.com/lbreton/ecoute/internal/translate"
	"github.com/lbreton/ecoute/internal/tts"
)

// env var consulted per provider when no --api-key flag is given
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"google":    "", // unauthenticated endpoint
}

// resolveAPIKey returns the key for a provider, preferring the flag
// value over the provider's environment variable.
func resolveAPIKey(flagValue, provider string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	envVar, known := providerKeyEnv[provider]
	if !known {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
	if envVar == "" {
		return "", nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key for %s is required: use --api-key flag or set %s", provider, envVar)
}

// buildProviders constructs the three pipeline collaborators from the
// command's provider flags.
func buildProviders(ctx context.Context, cmd *cobra.Command) (speech.Recognizer, translate.Translator, tts.Synthesizer, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	speechProvider, _ := cmd.Flags().GetString("speech-provider")
	translateProvider, _ := cmd.Flags().GetString("translate-provider")
	ttsProvider, _ := cmd.Flags().GetString("tts-provider")
	language, _ := cmd.Flags().GetString("language")

	speechKey, err := resolveAPIKey(apiKey, speechProvider)
	if err != nil {
		return nil, nil, nil, err
	}
	recognizer, err := speech.Factory(ctx, speech.Provider(speechProvider), speechKey, speech.Options{
		Language: language,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create recognizer: %w", err)
	}

	translateKey, err := resolveAPIKey(apiKey, translateProvider)
	if err != nil {
		return nil, nil, nil, err
	}
	translator, err := translate.Factory(ctx, translate.Provider(translateProvider), translateKey, translate.Options{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create translator: %w", err)
	}

	ttsKey, err := resolveAPIKey(apiKey, ttsProvider)
	if err != nil {
		return nil, nil, nil, err
	}
	synthesizer, err := tts.Factory(tts.Provider(ttsProvider), ttsKey, tts.Options{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	return recognizer, translator, synthesizer, nil
}
