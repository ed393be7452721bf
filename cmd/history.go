package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().RecentSessions(cmdContext(cmd), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No sessions recorded yet.")
			return nil
		}
		fmt.Fprintf(w, "%-16s  %-16s  %6s  %6s  %8s  %s\n", "When", "Topic", "Time", "Score", "Accuracy", "Streak")
		for _, e := range events {
			d := time.Duration(e.DurationSecs) * time.Second
			fmt.Fprintf(w, "%-16s  %-16s  %02d:%02d  %6d  %7d%%  %d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.Topic, 16),
				int(d.Minutes()), int(d.Seconds())%60,
				e.Score,
				session.AccuracyPercent(e.CorrectAnswers, e.QuestionsAnswered),
				e.MaxStreak,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
