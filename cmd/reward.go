package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/video"
)

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Show the video reward state",
	RunE: func(cmd *cobra.Command, args []string) error {
		clearActive, _ := cmd.Flags().GetBool("clear-active")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		st := rt.progress.State()
		out := cmd.OutOrStdout()

		if clearActive {
			if !st.ActiveReward.InProgress {
				fmt.Fprintln(out, "No unfinished reward to clear.")
				return nil
			}
			if err := rt.progress.SaveSnapshot(ctx, st.RewardPlayback, reward.ActiveReward{}); err != nil {
				return err
			}
			fmt.Fprintln(out, "Unfinished reward cleared.")
			return nil
		}

		status := st.Status()
		candidates := video.BuildCandidates(st.Settings.YouTubeVideoID, rt.cfg.Reward.FallbackVideos)
		start := video.ResolveStart(&st.RewardPlayback, candidates)

		fmt.Fprintf(out, "Rewards:      %s\n", onOff(st.Settings.RewardEnabled))
		fmt.Fprintf(out, "Earned:       %d (watched %d, available %d)\n",
			status.EarnedSessions, status.WatchedSessions, status.AvailableSessions)
		fmt.Fprintf(out, "Length:       %s\n", playback.FormatCountdown(st.Settings.RewardSeconds))
		fmt.Fprintf(out, "Shape:        %s\n", st.Settings.RewardOrientation)
		fmt.Fprintf(out, "Candidates:   %s\n", strings.Join(candidates, ", "))
		if len(candidates) > 0 {
			fmt.Fprintf(out, "Next start:   %s at %s\n", candidates[start.Index], playback.FormatCountdown(start.TimeSeconds))
		}

		if a := st.ActiveReward; a.InProgress {
			consumed := "not yet consumed"
			if a.Consumed {
				consumed = "consumed"
			}
			fmt.Fprintf(out, "Unfinished:   %s left, %s (resume with play)\n",
				playback.FormatCountdown(a.RemainingSeconds), consumed)
		}
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	rewardCmd.Flags().Bool("clear-active", false, "Drop an unfinished reward session instead of resuming it")
}
