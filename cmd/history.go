package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reward video events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessions, _ := cmd.Flags().GetBool("sessions")
		sessionID, _ := cmd.Flags().GetString("session")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		if sessions {
			list, err := rt.progress.Sessions(ctx, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No reward sessions yet.")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				outcome := s.Outcome
				if outcome == "" {
					outcome = "unfinished"
				}
				rows = append(rows, []string{
					shortID(s.SessionID),
					humanize.Time(s.Started),
					s.Duration().Round(1e9).String(),
					outcome,
					strconv.Itoa(s.Skips),
					strings.Join(s.Videos, " "),
					s.Reason,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Session", "Started", "Length", "Outcome", "Skips", "Videos", "Reason"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			))
			return nil
		}

		events, err := rt.progress.Events(ctx, store.QueryOpts{Limit: limit, SessionID: sessionID})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No reward events yet.")
			return nil
		}
		rows := make([][]string, 0, len(events))
		for _, e := range events {
			remaining := ""
			if e.RemainingSeconds > 0 {
				remaining = playback.FormatCountdown(e.RemainingSeconds)
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				humanize.Time(e.Timestamp),
				shortID(e.SessionID),
				e.Action,
				e.VideoID,
				remaining,
				e.Reason,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "When", "Session", "Action", "Video", "Left", "Reason"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum rows to show (0 = all)")
	historyCmd.Flags().Bool("sessions", false, "Group events into sessions")
	historyCmd.Flags().String("session", "", "Only events of this session id")
}
