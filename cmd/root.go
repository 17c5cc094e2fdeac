package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inference",
	Short: "Chapter-by-chapter trivia with locked content",
	Long:  "Inference: answer questions to unlock the next chapter of the story. Run without a command to play in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides INFERENCE_DB env var)")
	pf.String("catalog", "", "Path to catalog YAML (default: bundled sample)")
	pf.String("user", "", "Player id (default: $USER)")
	pf.String("channel", "", "Channel id used for the busy guard (default: terminal)")
	pf.Bool("admin", false, "Allow the privileged --answers and --forced switches")
	pf.String("log-mode", "", "Log mode: dev or prod")
	pf.String("redis", "", "Redis address for a channel lock shared across processes")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}
