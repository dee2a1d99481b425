package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/pipeline"
	"github.com/lbreton/ecoute/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser dashboard for reviewing study packets",
	Long: `Serve a browser dashboard over the study packets in the output
directory. The dashboard pages through each packet's sections with inline
audio players, can hide the English side for self-testing, and shows
per-packet and global vocabulary rankings.

When API keys are configured, new recordings can be uploaded and
processed directly from the browser.

Examples:
  ecoute serve
  ecoute serve --addr :9000 --output-dir packets`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().
		String("output-dir", "output", "Directory holding the study packets")
	serveCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/ANTHROPIC_API_KEY/GEMINI_API_KEY env var)")
	serveCmd.Flags().
		String("speech-provider", "openai", "Speech recognition provider (openai, gemini)")
	serveCmd.Flags().
		String("translate-provider", "openai", "Translation provider (openai, anthropic, gemini)")
	serveCmd.Flags().
		String("tts-provider", "google", "Speech synthesis provider (google, openai)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// browser processing is optional: without credentials the dashboard
	// still serves existing packets
	var process server.ProcessFunc
	recognizer, translator, synthesizer, err := buildProviders(ctx, cmd)
	if err != nil {
		logger.Warnw("processing disabled", "reason", err)
	} else {
		cfg := pipeline.DefaultConfig(outputDir)
		// dashboard reruns overwrite the packet instead of stacking timestamped copies
		cfg.Timestamped = false
		processor := pipeline.New(cfg, recognizer, translator, synthesizer, logger)
		process = func(ctx context.Context, inputPath string) (*manifest.Manifest, error) {
			m, _, err := processor.Process(ctx, inputPath)
			return m, err
		}
	}

	srv := server.New(server.Config{
		Addr:      addr,
		OutputDir: outputDir,
	}, process, logger)

	return srv.Run(ctx)
}
