package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/reward"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress",
	Long:  "Clears learned letters, score, streak and watched videos. Settings are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetBool("keep-playback")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this wipes all learning progress; re-run with --yes to confirm")
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.progress.Reset(cmd.Context(), reward.ResetOptions{ResetRewardPlayback: !keep}); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		rt.logger.Info("learner progress reset", "keep_playback", keep)
		fmt.Fprintln(cmd.OutOrStdout(), "Learning progress was reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("keep-playback", false, "Keep the video bookmark")
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
