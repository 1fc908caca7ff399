package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/reward"
)

var learnCmd = &cobra.Command{
	Use:   "learn <letter>",
	Short: "Mark a letter as learned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		letter := reward.NormalizeLetter(args[0])
		item, ok := letters.Lookup(letter)
		if !ok {
			return fmt.Errorf("unknown letter %q", args[0])
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		already := rt.progress.State().IsLearned(item.Letter)
		status, err := rt.progress.LearnLetter(cmd.Context(), item.Letter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if already {
			fmt.Fprintf(out, "%s is already learned.\n", item.Letter)
		} else {
			fmt.Fprintf(out, "Learned %s - %s %s\n", item.Letter, item.Word, item.Emoji)
		}
		printRewardLine(out, rt.progress.State().Settings, status)
		return nil
	},
}
