package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lbreton/ecoute/internal/export"
	"github.com/lbreton/ecoute/internal/manifest"
)

var exportCmd = &cobra.Command{
	Use:   "export [manifest_file]",
	Short: "Export a study packet transcript as SRT or VTT",
	Long: `Export the transcript of a study packet as a subtitle file.

Sections are laid out back to back on a cumulative timeline, so the
transcript lines up with a concatenation of the packet's French audio
clips. With --bilingual each cue carries the English translation on a
second line.

Examples:
  ecoute export output/lecture_processed.json
  ecoute export output/lecture_processed.json --format vtt
  ecoute export output/lecture_processed.json --bilingual -o study.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "srt", "Transcript format (srt, vtt)")
	exportCmd.Flags().
		Bool("bilingual", false, "Include the English translation in each cue")
}

func runExport(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	formatStr, _ := cmd.Flags().GetString("format")
	bilingual, _ := cmd.Flags().GetBool("bilingual")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(manifestPath, ".json") + format.Extension()
	}

	if err := export.Write(m, format, outputPath, export.Options{Bilingual: bilingual}); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	logger.Infow("Transcript written",
		"output", outputPath,
		"format", formatStr,
		"cues", len(m.Sections),
	)
	return nil
}
