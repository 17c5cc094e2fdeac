package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the player's answered questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset is permanent; pass --yes to confirm")
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		existed, err := d.store.UserRepo().Delete(cmd.Context(), d.cfg.UserID)
		if err != nil {
			return err
		}
		if !existed {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to reset for %s.\n", d.cfg.UserID)
			return nil
		}
		d.log.Info("record reset", "user", d.cfg.UserID)
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", d.cfg.UserID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
