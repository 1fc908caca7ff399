package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/reward"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <target> <answer>",
	Short: "Record a quiz answer for target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := reward.NormalizeLetter(args[0])
		if _, ok := letters.Lookup(target); !ok {
			return fmt.Errorf("unknown letter %q", args[0])
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		correct, err := rt.progress.AnswerQuiz(cmd.Context(), target, args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		st := rt.progress.State()
		if correct {
			fmt.Fprintf(out, "Correct! +%d points (score %d, streak %d)\n", reward.QuizPoints, st.Score, st.Streak)
		} else {
			fmt.Fprintf(out, "Not quite, the answer was %s. Streak reset.\n", target)
		}
		printRewardLine(out, st.Settings, st.Status())
		return nil
	},
}
