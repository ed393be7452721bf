package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics per topic and question style",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmdContext(cmd)
		topics, err := s.EventRepo().TopicStats(ctx)
		if err != nil {
			return fmt.Errorf("query topic stats: %w", err)
		}
		archetypes, err := s.EventRepo().ArchetypeStats(ctx)
		if err != nil {
			return fmt.Errorf("query style stats: %w", err)
		}
		writeStats(cmd.OutOrStdout(), topics, archetypes)
		return nil
	},
}

func writeStats(w io.Writer, topics []store.TopicStat, archetypes []store.ArchetypeStat) {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	fmt.Fprintln(w, "Topics")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-16s  %8s  %8s  %8s  %6s\n", "Topic", "Sessions", "Answers", "Accuracy", "Best")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, t := range topics {
		fmt.Fprintf(w, "%-16s  %8d  %8d  %7d%%  %6d\n",
			truncate(t.Topic, 16), t.Sessions, t.Attempts, session.AccuracyPercent(t.Correct, t.Attempts), t.BestScore)
	}

	if len(archetypes) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Question styles")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %-18s  %8s  %8s  %8s\n", "Topic", "Style", "Answers", "Accuracy", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, a := range archetypes {
		label := a.Archetype
		if arch, err := problemgen.ParseArchetype(a.Archetype); err == nil {
			label = arch.Label()
		}
		fmt.Fprintf(w, "%-16s  %-18s  %8d  %7d%%  %8d\n",
			truncate(a.Topic, 16), label, a.Attempts, session.AccuracyPercent(a.Correct, a.Attempts), a.AvgTimeMs)
	}
}
