package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/grammar"
)

var playCmd = &cobra.Command{
	Use:   "play [topic]",
	Short: "Start a practice session",
	Long: `Start a practice session in the terminal UI.

With a topic argument the session starts straight away; without one the
home screen lets you pick. Run "grammiz topics" to list topic IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var topic grammar.TopicID
		if len(args) == 1 {
			topic = grammar.TopicID(args[0])
			if topic == "" {
				return fmt.Errorf("empty topic")
			}
		}
		return runApp(cmd, topic, true)
	},
}
