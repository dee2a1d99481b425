package cli

import (
	"github.com/lbreton/ecoute/internal/config"
	"github.com/lbreton/ecoute/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecoute",
	Short: "Turn French recordings into bilingual study packets",
	Long: `Écoute processes French audio and video recordings into study
packets: the recording is split on silences, and each spoken segment is
transcribed, translated to English, and re-synthesized as an English
audio clip, alongside a JSON manifest tying everything together.

The packets can be reviewed in a browser with the serve command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDefaultEnv()
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "fr-FR", "Spoken language of the recording (BCP-47 tag)")
}
