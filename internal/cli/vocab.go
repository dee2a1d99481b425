package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab [manifest_file]",
	Short: "Rank the vocabulary of a study packet",
	Long: `Rank the French vocabulary of a study packet by frequency.

Words are lowercased, French stopwords are removed, and anything that is
not purely alphabetic (numbers, contractions, hyphenated forms) is
skipped. The --filter flag excludes additional words, such as proper
names the recording repeats.

With --update-global the packet's counts are merged into the global
vocabulary cache kept next to the manifest, accumulating frequencies
across every packet processed so far.

Examples:
  ecoute vocab output/lecture_processed.json
  ecoute vocab output/lecture_processed.json --filter "jean,marie"
  ecoute vocab output/lecture_processed.json --update-global`,
	Args: cobra.ExactArgs(1),
	RunE: runVocab,
}

func init() {
	rootCmd.AddCommand(vocabCmd)

	vocabCmd.Flags().
		String("filter", "", "Comma-separated words to exclude")
	vocabCmd.Flags().
		Bool("update-global", false, "Merge the counts into the global vocabulary cache")
	vocabCmd.Flags().
		Int("top", 0, "Limit output to the N most frequent words (0 = all)")
}

func runVocab(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	filter, _ := cmd.Flags().GetString("filter")
	updateGlobal, _ := cmd.Flags().GetBool("update-global")
	top, _ := cmd.Flags().GetInt("top")

	texts := make([]string, 0, len(m.Sections))
	for _, section := range m.Sections {
		texts = append(texts, section.FrenchText)
	}

	counter := vocab.Extract(texts, vocab.ParseFilterWords(filter))
	ranked := counter.Ranked()

	if updateGlobal {
		store := vocab.NewStore(filepath.Join(filepath.Dir(manifestPath), vocab.CacheFileName))
		merged, err := store.Update(counter)
		if err != nil {
			return fmt.Errorf("failed to update global vocabulary: %w", err)
		}
		logger.Infow("Global vocabulary updated",
			"newWords", counter.Len(),
			"totalWords", len(merged),
		)
	}

	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}

	fmt.Printf("%d distinct words in %s\n\n", counter.Len(), m.FileName)
	for _, wc := range ranked {
		fmt.Printf("%5d  %s\n", wc.Count, wc.Word)
	}
	return nil
}
