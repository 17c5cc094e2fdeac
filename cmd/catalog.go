package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/inference/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect chapter and question content",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters (optionally only those at one progress level)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt("progress")
		filter := cmd.Flags().Changed("progress")

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-36s  %8s  %9s\n", "ID", "Name", "Progress", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 71))

		var shown int
		for _, ch := range cat.Chapters() {
			if filter && ch.Progress != level {
				continue
			}
			name := ch.Name
			if len(name) > 36 {
				name = name[:33] + "..."
			}
			questions := "-"
			if ch.Numeric {
				questions = fmt.Sprint(len(cat.QuestionsIn(ch.Index)))
			}
			fmt.Fprintf(out, "%-12s  %-36s  %8d  %9s\n", ch.ID, name, ch.Progress, questions)
			shown++
		}
		if filter && shown == 0 {
			return fmt.Errorf("no chapters found at progress %d", level)
		}

		fmt.Fprintf(out, "\n%d chapters, %d graded questions\n", shown, cat.GradedQuestionCount())
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %s\n", args[0], cat)
		return nil
	},
}

func init() {
	catalogListCmd.Flags().Int("progress", 0, "Only chapters unlocked at this progress level")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}
