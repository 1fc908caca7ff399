package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/reward"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest the next letter to learn",
	RunE: func(cmd *cobra.Command, args []string) error {
		random, _ := cmd.Flags().GetBool("random")
		from, _ := cmd.Flags().GetString("from")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		st := rt.progress.State()
		current := reward.NormalizeLetter(from)
		if current == "" {
			current = st.LastLearnedLetter
		}
		if current == "" {
			current = letters.All[0].Letter
		}

		i, ok := letters.PickNextUnlearnedIndex(letters.All, st.LearnedLetters, current, random, rand.IntN)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Every letter is learned!")
			return nil
		}
		item := letters.All[i]
		fmt.Fprintf(cmd.OutOrStdout(), "%s - %s %s\n", item.Letter, item.Word, item.Emoji)
		return nil
	},
}

func init() {
	nextCmd.Flags().Bool("random", false, "Pick a random unlearned letter")
	nextCmd.Flags().String("from", "", "Start after this letter (default: last learned)")
}
