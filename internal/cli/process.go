package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lbreton/ecoute/internal/audio"
	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process [media_file]",
	Short: "Process a French recording into a bilingual study packet",
	Long: `Process the specified audio or video file into a study packet.

The recording is split wherever the audio falls below its average level
for at least a second. Each resulting segment is transcribed, translated
to English, and synthesized back as English audio. The packet is written
to the output directory: per-segment French and English MP3 clips plus a
JSON manifest.

Segments where no speech is recognized are skipped. A failed translation
keeps the segment with a placeholder so the French side is not lost.

Examples:
  ecoute process lecture.mp3
  ecoute process lecture.mp4 --output-dir packets
  ecoute process lecture.mp3 --translate-provider anthropic
  ecoute process lecture.mp3 --speech-provider gemini --api-key YOUR_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().
		String("output-dir", "output", "Directory for the study packet")
	processCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/ANTHROPIC_API_KEY/GEMINI_API_KEY env var)")
	processCmd.Flags().
		String("speech-provider", "openai", "Speech recognition provider (openai, gemini)")
	processCmd.Flags().
		String("translate-provider", "openai", "Translation provider (openai, anthropic, gemini)")
	processCmd.Flags().
		String("tts-provider", "google", "Speech synthesis provider (google, openai)")
	processCmd.Flags().
		Bool("timestamped", true, "Append a run timestamp to output file names")
}

func runProcess(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	timestamped, _ := cmd.Flags().GetBool("timestamped")

	recognizer, translator, synthesizer, err := buildProviders(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := pipeline.DefaultConfig(outputDir)
	cfg.Timestamped = timestamped

	processor := pipeline.New(cfg, recognizer, translator, synthesizer, logger)
	processor.SetObserver(progressPrinter{})

	logger.Infow("Starting processing",
		"input", mediaPath,
		"outputDir", outputDir,
	)

	m, manifestPath, err := processor.Process(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	logger.Infow("Processing complete",
		"sections", len(m.Sections),
		"manifest", manifestPath,
	)

	fmt.Printf("\nStudy packet written to %s\n", outputDir)
	fmt.Printf("  sections: %d\n", len(m.Sections))
	fmt.Printf("  duration: %.1fs\n", m.TotalDuration)
	fmt.Printf("  manifest: %s\n", manifestPath)
	return nil
}

// progressPrinter reports per-segment progress on stdout.
type progressPrinter struct{}

func (progressPrinter) SegmentProcessed(index, total int, section *manifest.Section) {
	if section == nil {
		fmt.Printf("[%d/%d] skipped (no speech recognized)\n", index, total)
		return
	}
	fmt.Printf("[%d/%d] %s\n", index, total, section.FrenchText)
}
