package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show learning progress and reward status",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		st := rt.progress.State()
		status := st.Status()

		fmt.Fprintln(out, paint(out, theme.Title, "ABC Adventure"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderAlphabet(out, st))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Learned:   %d / %d\n", status.LearnedCount, len(letters.All))
		fmt.Fprintf(out, "  Score:     %d\n", st.Score)
		fmt.Fprintf(out, "  Streak:    %d\n", st.Streak)
		if st.LastLearnedLetter != "" {
			fmt.Fprintf(out, "  Last:      %s\n", st.LastLearnedLetter)
		}
		fmt.Fprintln(out)
		printRewardLine(out, st.Settings, status)
		return nil
	},
}

func renderAlphabet(w io.Writer, st reward.State) string {
	learned := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	pending := lipgloss.NewStyle().Foreground(theme.TextDim)

	cells := make([]string, 0, len(letters.All))
	for _, item := range letters.All {
		if st.IsLearned(item.Letter) {
			cells = append(cells, paint(w, learned, item.Letter))
		} else {
			cells = append(cells, paint(w, pending, strings.ToLower(item.Letter)))
		}
	}
	return "  " + strings.Join(cells, " ")
}

// printRewardLine prints the reward progress summary shared by several
// commands.
func printRewardLine(w io.Writer, settings reward.Settings, status reward.Status) {
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	switch {
	case !settings.RewardEnabled:
		fmt.Fprintln(w, "  Video rewards are off.")
	case status.AvailableSessions > 0:
		fmt.Fprintln(w, paint(w, accent, fmt.Sprintf("  %d video reward(s) ready (%s each).",
			status.AvailableSessions, playback.FormatCountdown(settings.RewardSeconds))))
	default:
		fmt.Fprintf(w, "  Next video: %d / %d letters (at %d learned)\n",
			status.ProgressToNextReward, status.LettersPerReward, status.NextMilestoneAt)
	}
}
