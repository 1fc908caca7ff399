package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/reward"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the parent settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		s := rt.progress.State().Settings
		out := cmd.OutOrStdout()
		if asJSON {
			// The outer empty parentPin shadows the real one.
			data, err := json.MarshalIndent(struct {
				reward.Settings
				ParentPIN string `json:"parentPin,omitempty"`
			}{Settings: s}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Letters per video:  %d\n", s.LettersPerReward)
		fmt.Fprintf(out, "Video seconds:      %d\n", s.RewardSeconds)
		fmt.Fprintf(out, "YouTube video:      %s\n", s.YouTubeVideoID)
		fmt.Fprintf(out, "Video shape:        %s\n", s.RewardOrientation)
		fmt.Fprintf(out, "Video rewards:      %s\n", onOff(s.RewardEnabled))
		fmt.Fprintf(out, "Parent PIN:         %s\n", strings.Repeat("•", len(s.ParentPIN)))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change individual settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var u reward.SettingsUpdate
		flags := cmd.Flags()
		if flags.Changed("letters") {
			v, _ := flags.GetInt("letters")
			u.LettersPerReward = &v
		}
		if flags.Changed("seconds") {
			v, _ := flags.GetInt("seconds")
			u.RewardSeconds = &v
		}
		if flags.Changed("video") {
			v, _ := flags.GetString("video")
			u.Video = &v
		}
		if flags.Changed("orientation") {
			v, _ := flags.GetString("orientation")
			u.RewardOrientation = &v
		}
		if flags.Changed("new-pin") {
			v, _ := flags.GetString("new-pin")
			u.NewPIN = &v
		}
		if flags.Changed("enabled") {
			v, _ := flags.GetBool("enabled")
			u.RewardEnabled = &v
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := checkParentPIN(cmd, rt.progress.State().Settings); err != nil {
			return err
		}
		if err := rt.progress.UpdateSettings(cmd.Context(), u); err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Apply settings from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		current := rt.progress.State().Settings
		if err := checkParentPIN(cmd, current); err != nil {
			return err
		}
		next, err := reward.DecodeSettingsDocument(raw, current)
		if err != nil {
			return err
		}
		if err := rt.progress.ReplaceSettings(cmd.Context(), next); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported settings from %s.\n", args[0])
		return nil
	},
}

// checkParentPIN guards changes behind the parent PIN, like the parent
// area in the app.
func checkParentPIN(cmd *cobra.Command, s reward.Settings) error {
	pin, _ := cmd.Flags().GetString("parent-pin")
	if pin == "" {
		pin = os.Getenv("ABC_PARENT_PIN")
	}
	if err := reward.VerifyPIN(s, pin); err != nil {
		if errors.Is(err, reward.ErrWrongPIN) {
			return errors.New("wrong parent PIN (use --parent-pin or ABC_PARENT_PIN)")
		}
		return err
	}
	return nil
}

func init() {
	settingsShowCmd.Flags().Bool("json", false, "Print an importable JSON document (without the PIN)")

	settingsSetCmd.Flags().Int("letters", 0, "Letters to learn per video (1-26)")
	settingsSetCmd.Flags().Int("seconds", 0, "Video length in seconds (10-600)")
	settingsSetCmd.Flags().String("video", "", "YouTube link or 11-character video id")
	settingsSetCmd.Flags().String("orientation", "", "Video shape: landscape or portrait")
	settingsSetCmd.Flags().String("new-pin", "", "New parent PIN (4-8 digits)")
	settingsSetCmd.Flags().Bool("enabled", true, "Turn video rewards on or off")

	settingsCmd.PersistentFlags().String("parent-pin", "", "Current parent PIN")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}
