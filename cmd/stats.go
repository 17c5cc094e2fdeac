package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and answer statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		all, _ := cmd.Flags().GetBool("all")

		userID := d.cfg.UserID
		if all {
			userID = ""
		} else {
			r, err := d.record(ctx)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			total := d.engine.Catalog().GradedQuestionCount()
			fmt.Fprintf(out, "Player:    %s\n", userID)
			fmt.Fprintf(out, "Progress:  %d\n", d.engine.DisplayProgress(r))
			fmt.Fprintf(out, "Solved:    %d/%d\n", r.Len(), total)
		}

		stats, err := d.store.EventRepo().AnswerStats(ctx, userID)
		if err != nil {
			return fmt.Errorf("answer stats: %w", err)
		}
		fmt.Fprintf(out, "Answers:   %d\n", stats.Total)
		if stats.Total == 0 {
			return nil
		}
		fmt.Fprintf(out, "Outcomes:  %s\n", formatCounts(stats.ByOutcome))
		if len(stats.Unlocks) > 0 {
			fmt.Fprintf(out, "Unlocks:   %s\n", formatCounts(stats.Unlocks))
		}
		fmt.Fprintf(out, "Last:      %s\n", stats.Last.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("all", false, "Aggregate answers from every player")
}

// formatCounts renders "a=1, b=2" in key order.
func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}
